package constants

// Permission is an abstract permission token checked by the authorizer.
type Permission string

const (
	PermCreateLarp                Permission = "CREATE_LARP"
	PermCreateLocation            Permission = "CREATE_LOCATION"
	PermEditLocation              Permission = "EDIT_LOCATION"
	PermApproveLocation           Permission = "APPROVE_LOCATION"
	PermRejectLocation            Permission = "REJECT_LOCATION"
	PermDeleteLocation            Permission = "DELETE_LOCATION"
	PermManageLarpGeneralSettings Permission = "MANAGE_LARP_GENERAL_SETTINGS"
	PermDeleteParticipant         Permission = "DELETE_PARTICIPANT"
	PermManageParticipants        Permission = "MANAGE_PARTICIPANTS"
	PermViewLarpBackoffice        Permission = "VIEW_LARP_BACKOFFICE"
)

func (p Permission) String() string { return string(p) }
