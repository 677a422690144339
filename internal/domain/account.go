package domain

// AccountPlan enumerates billing plans.
type AccountPlan string

const (
	AccountPlanFree AccountPlan = "free"
	AccountPlanPro  AccountPlan = "pro"
)

// Account identifies the requester of an operation together with the plan
// that drives quota policy.
type Account struct {
	ID     string
	Plan   AccountPlan
	Locale string
}

// IsFree reports whether the account is on the free plan.
func (a Account) IsFree() bool {
	return a.Plan != AccountPlanPro
}
