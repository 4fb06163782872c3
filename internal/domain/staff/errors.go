package staff

import "errors"

var (
	ErrApproverAccessRequired = errors.New("approver access required")
)
