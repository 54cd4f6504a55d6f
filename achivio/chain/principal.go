package chain

import (
	"fmt"
	"strings"
)

// Principal identifies an account on the ledger. User principals are opaque
// address strings supplied by the caller; contract principals carry a
// "achivio." prefix and are reserved for the contracts themselves.
type Principal string

const contractPrefix = "achivio."

// ContractPrincipal returns the reserved principal for a deployed contract.
func ContractPrincipal(name string) Principal {
	return Principal(contractPrefix + name)
}

// IsContract reports whether p addresses a contract rather than a user.
func (p Principal) IsContract() bool {
	return strings.HasPrefix(string(p), contractPrefix)
}

func (p Principal) String() string {
	return string(p)
}

// ValidPrincipal rejects empty and whitespace-only identities before they
// reach contract state. Contract principals are never accepted from callers.
func ValidPrincipal(p Principal) error {
	s := strings.TrimSpace(string(p))
	if s == "" {
		return fmt.Errorf("empty principal")
	}
	if Principal(s) != p {
		return fmt.Errorf("principal %q has surrounding whitespace", p)
	}
	return nil
}
