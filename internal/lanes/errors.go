package lanes

import "errors"

var errTicketUsed = errors.New("lanes: ticket already used")
