package models

// RoleType defines the user role type
type RoleType string

const (
	RoleMember          RoleType = "MEMBER"
	RoleECMember        RoleType = "EC_MEMBER"
	RoleCoordinator     RoleType = "COORDINATOR"
	RoleReviewer        RoleType = "REVIEWER"
	RoleChapterChair    RoleType = "CHAPTER_CHAIR"
	RoleYiAdmin         RoleType = "YI_ADMIN"
	RoleTrainer         RoleType = "TRAINER"
	RoleIndustryPartner RoleType = "INDUSTRY_PARTNER"
)

// ValidRoles lists every assignable role.
var ValidRoles = []RoleType{
	RoleMember,
	RoleECMember,
	RoleCoordinator,
	RoleReviewer,
	RoleChapterChair,
	RoleYiAdmin,
	RoleTrainer,
	RoleIndustryPartner,
}

// IsValidRole reports whether r is one of the assignable roles.
func IsValidRole(r RoleType) bool {
	for _, role := range ValidRoles {
		if role == r {
			return true
		}
	}
	return false
}
