package players

import "errors"

// ErrUnknownFormation is returned for formations without a slot table.
var ErrUnknownFormation = errors.New("unknown formation")
