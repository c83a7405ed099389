package order

import (
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// accountRef carries the MLBB account coordinates supplied with /mmb.
// Game ids are 6-10 digits, server ids 3-5 digits.
type accountRef struct {
	GameID   string `validate:"required,number,min=6,max=10"`
	ServerID string `validate:"required,number,min=3,max=5"`
}

func validAccountRef(gameID, serverID string) bool {
	return validate.Struct(accountRef{GameID: gameID, ServerID: serverID}) == nil
}

// Explicitly blocked game ids on top of the pattern checks.
var bannedGameIDs = map[string]struct{}{
	"123456789": {},
	"000000000": {},
	"111111111": {},
}

// bannedAccount flags ids known to be unusable for top-ups: the explicit
// denylist, all-identical-digit ids, and ids starting or ending with "000".
func bannedAccount(gameID string) bool {
	if _, ok := bannedGameIDs[gameID]; ok {
		return true
	}

	allSame := true
	for i := 1; i < len(gameID); i++ {
		if gameID[i] != gameID[0] {
			allSame = false
			break
		}
	}
	if allSame && len(gameID) > 0 {
		return true
	}

	if len(gameID) >= 3 {
		if gameID[:3] == "000" || gameID[len(gameID)-3:] == "000" {
			return true
		}
	}

	return false
}
