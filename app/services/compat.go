package services

// CheckTierCompatibility decides whether a product of tier incoming may join
// a build whose items currently span the distinct tiers in existing. Tier 2
// goes with anything, even a build that already mixes 1 and 3; tiers 1 and
// 3 exclude each other.
func CheckTierCompatibility(existing []int, incoming int) error {
	var has1, has3 bool
	for _, t := range existing {
		switch t {
		case 1:
			has1 = true
		case 3:
			has3 = true
		}
	}

	switch {
	case has1 && has3 && incoming != 2:
		return &TierConflictError{Existing: 1, Incoming: incoming, Mixed: true}
	case has1 && incoming == 3:
		return &TierConflictError{Existing: 1, Incoming: 3}
	case has3 && incoming == 1:
		return &TierConflictError{Existing: 3, Incoming: 1}
	}
	return nil
}
