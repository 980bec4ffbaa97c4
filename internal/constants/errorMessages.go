package constants

const (
	MsgPermissionDenied     = "You do not have permission to perform this action"
	MsgLarpNotFound         = "LARP not found"
	MsgLocationNotFound     = "Location not found"
	MsgParticipantNotFound  = "Participant not found"
	MsgUserNotFound         = "User not found"
	MsgTransitionNotEnabled = "This transition is not available from the current status"
	MsgLastOrganizer        = "A LARP must keep at least one organizer"
	MsgEmptyRoleSet         = "A participant needs at least one role"
	MsgAlreadyParticipant   = "User already participates in this LARP"
	MsgLocationNotEditable  = "Approved locations can no longer be changed"
	MsgLarpQuotaExceeded    = "Your plan does not allow organizing another LARP"
	MsgAccountNotApproved   = "Your account is not approved yet"
)
