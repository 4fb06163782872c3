package staff

// Role is the capability level resolved by the identity collaborator and
// carried in JWT claims. This core only distinguishes who may review
// corrections.
type Role string

const (
	RoleStaff    Role = "staff"
	RoleApprover Role = "approver"
	RoleAdmin    Role = "admin"
)

// CanReview reports whether the role may decide correction requests.
func (r Role) CanReview() bool {
	return r == RoleApprover || r == RoleAdmin
}
