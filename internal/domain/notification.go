package domain

type NotificationMessage struct {
	Type string `json:"type"`
	To   string `json:"to"`
	Data any    `json:"data"`
}

type CreateUserNotificationData struct {
	FullName string `json:"fullName"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type ResetPasswordNotificationData struct {
	FullName   string `json:"fullName"`
	OTP        string `json:"otp"`
	Expiration int    `json:"expiration"`
}

type SubstitutionRequestedNotificationData struct {
	RequesterName string `json:"requesterName"`
	ShiftDate     string `json:"shiftDate"`
	ShiftType     string `json:"shiftType"`
	Role          string `json:"role"`
	StartTime     string `json:"startTime"`
	Deadline      string `json:"deadline"`
	Note          string `json:"note"`
}

type SubstitutionAppliedNotificationData struct {
	SubstituteName string `json:"substituteName"`
	RequesterName  string `json:"requesterName"`
	ShiftDate      string `json:"shiftDate"`
	ShiftType      string `json:"shiftType"`
	Role           string `json:"role"`
}
