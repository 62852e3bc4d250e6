package domain

// Action is an intent checked by the access policy
type Action string

const (
	ActionCreateLoan     Action = "createLoan"
	ActionListOwnLoans   Action = "listOwnLoans"
	ActionViewLoan       Action = "viewLoan"
	ActionListAllLoans   Action = "listAllLoans"
	ActionListPending    Action = "listPending"
	ActionListVerified   Action = "listVerified"
	ActionVerifyLoan     Action = "verifyLoan"
	ActionApproveLoan    Action = "approveLoan"
	ActionRejectLoan     Action = "rejectLoan"
	ActionManageAdmins   Action = "manageAdmins"
	ActionViewStatistics Action = "viewStatistics"
)

// DenyReason tells callers why a request was refused
type DenyReason string

const (
	DenyUnauthenticated  DenyReason = "not authenticated"
	DenyInsufficientRole DenyReason = "insufficient role"
	DenyNotOwner         DenyReason = "not owner"
	DenyInvalidState     DenyReason = "invalid resource state"
)

type rule struct {
	// roles allowed to attempt the action; empty means any authenticated role
	roles []Role
	// ownerScoped restricts a resource to its owner unless the caller holds ownerBypass
	ownerScoped bool
	ownerBypass []Role
	// states lists, per role, the resource statuses the action accepts
	states map[Role][]LoanStatus
	// target is the status the action moves a loan to, if any
	target LoanStatus
}

var policy = map[Action]rule{
	ActionCreateLoan:   {},
	ActionListOwnLoans: {ownerScoped: true},
	ActionViewLoan: {
		ownerScoped: true,
		ownerBypass: []Role{RoleVerifier, RoleAdmin},
	},
	ActionListAllLoans: {roles: []Role{RoleVerifier, RoleAdmin}},
	ActionListPending:  {roles: []Role{RoleVerifier}},
	ActionListVerified: {roles: []Role{RoleAdmin}},
	ActionVerifyLoan: {
		roles:  []Role{RoleVerifier},
		states: map[Role][]LoanStatus{RoleVerifier: {StatusPending}},
		target: StatusVerified,
	},
	ActionApproveLoan: {
		roles:  []Role{RoleAdmin},
		states: map[Role][]LoanStatus{RoleAdmin: {StatusVerified}},
		target: StatusApproved,
	},
	ActionRejectLoan: {
		roles: []Role{RoleVerifier, RoleAdmin},
		states: map[Role][]LoanStatus{
			RoleVerifier: {StatusPending},
			RoleAdmin:    {StatusPending, StatusVerified},
		},
		target: StatusRejected,
	},
	ActionManageAdmins:   {roles: []Role{RoleAdmin}},
	ActionViewStatistics: {},
}

// Decision is the outcome of Authorize
type Decision struct {
	Allowed bool
	Action  Action
	Reason  DenyReason

	resource *Loan
	target   LoanStatus
	expected []LoanStatus
}

// Err converts a deny into the matching domain error; nil when allowed.
func (d Decision) Err() error {
	if d.Allowed {
		return nil
	}
	switch d.Reason {
	case DenyUnauthenticated:
		return ErrUnauthenticated
	case DenyInvalidState:
		te := &TransitionError{Target: d.target, Expected: d.expected}
		if d.resource != nil {
			te.LoanID = d.resource.ID
			te.Actual = d.resource.Status
		}
		return te
	default:
		return &AuthorizationError{Action: d.Action, Reason: d.Reason}
	}
}

// Authorize decides whether id may perform action on resource.
// resource may be nil for actions without a target, or to check the role
// before the target has been loaded.
func Authorize(id *Identity, action Action, resource *Loan) Decision {
	if id == nil || id.UserID == "" {
		return Decision{Action: action, Reason: DenyUnauthenticated}
	}

	r, ok := policy[action]
	if !ok {
		return Decision{Action: action, Reason: DenyInsufficientRole}
	}

	if len(r.roles) > 0 && !id.HasRole(r.roles...) {
		return Decision{Action: action, Reason: DenyInsufficientRole}
	}

	if resource == nil {
		return Decision{Allowed: true, Action: action}
	}

	if r.ownerScoped && resource.UserID != id.UserID && !id.HasRole(r.ownerBypass...) {
		return Decision{Action: action, Reason: DenyNotOwner}
	}

	if accepted, ok := r.states[id.Role]; ok && !containsStatus(accepted, resource.Status) {
		return Decision{
			Action:   action,
			Reason:   DenyInvalidState,
			resource: resource,
			target:   r.target,
			expected: accepted,
		}
	}

	return Decision{Allowed: true, Action: action}
}

func containsStatus(list []LoanStatus, s LoanStatus) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
