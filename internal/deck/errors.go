package deck

import "errors"

var errDealLength = errors.New("deal must contain exactly 9 cards")
