package handler

type ContextKey string

var (
	RolesCtxKey     ContextKey = "roles"
	SubCtxKey       ContextKey = "sub"
	MyInfoCtx       ContextKey = "myInfo"
	UserInfoCtx     ContextKey = "userInfo"
	WeekStartCtx    ContextKey = "weekStart"
	ShiftCtx        ContextKey = "shift"
	AbsenceCtx      ContextKey = "absence"
	SubstitutionCtx ContextKey = "substitution"
)
