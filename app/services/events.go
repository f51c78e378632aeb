package services

// Events fired by BuildService. Listeners are registered in app/listeners.
const (
	EventItemAdded    = "build.item_added"
	EventTierConflict = "build.tier_conflict"
	EventBuildDeleted = "build.deleted"
)

type ItemAdded struct {
	BuildID   uint
	UserID    uint
	ProductID uint
	Quantity  int
}

type TierConflict struct {
	BuildID   uint
	UserID    uint
	ProductID uint
	Conflict  *TierConflictError
}

type BuildDeleted struct {
	BuildID uint
	UserID  uint
}
