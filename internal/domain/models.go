// Package domain defines the persistence models for menu snapshots, meals,
// devices, subscriptions, and canteen occupancy samples. These types are
// mapped with GORM and form the core data layer of the application.
package domain

import (
	"time"
)

// MealCategory is the closed set of menu sections a meal can belong to.
// The values are persisted verbatim; changes to this set are explicit schema
// migrations, never derived at runtime.
type MealCategory string

// Meal categories. TechnicalInfo collects zero-priced header/footer notices
// and any section whose label is not recognized.
const (
	CategorySalad          MealCategory = "SALAD"
	CategorySoup           MealCategory = "SOUP"
	CategoryVegetarianDish MealCategory = "VEGETARIAN_DISH"
	CategoryMeatDish       MealCategory = "MEAT_DISH"
	CategoryDessert        MealCategory = "DESSERT"
	CategorySideDish       MealCategory = "SIDE_DISH"
	CategoryDrink          MealCategory = "DRINK"
	CategoryTechnicalInfo  MealCategory = "TECHNICAL_INFO"
)

// Valid reports whether c is one of the known category values.
func (c MealCategory) Valid() bool {
	switch c {
	case CategorySalad, CategorySoup, CategoryVegetarianDish, CategoryMeatDish,
		CategoryDessert, CategorySideDish, CategoryDrink, CategoryTechnicalInfo:
		return true
	}
	return false
}

// MenuSnapshot is one fetched-and-hashed state of the external menu page.
// The hash is a SHA-256 hex digest of the entire raw page, so any byte-level
// change produces a new snapshot. Re-fetching identical content only bumps
// UpdatedAt on the existing row.
//
// Fields:
//   - Hash: content fingerprint, primary key (64 hex chars).
//   - CreatedAt: when this page state was first observed.
//   - UpdatedAt: when this page state was last observed.
type MenuSnapshot struct {
	Hash      string    `json:"hash"       gorm:"type:char(64);primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Dishes lists this snapshot's day-specific meal listings.
	Dishes []SnapshotDish `json:"-" gorm:"foreignKey:SnapshotHash;references:Hash"`
}

// TableName returns the database table name for MenuSnapshot.
func (MenuSnapshot) TableName() string { return "menu_snapshots" }

// Meal is the canonical dish identity, keyed by (name, category). A meal is
// created the first time a given pair is observed and never updated after
// that. Two dishes with the same name but different categories are distinct
// meals. Names are matched exactly: upstream typos create new catalog rows
// (known fragmentation, intentionally not corrected here).
type Meal struct {
	ID        uint         `json:"id"         gorm:"primaryKey"`
	Name      string       `json:"name"       gorm:"type:varchar(255);not null;uniqueIndex:ux_meals_name_category,priority:1"`
	Category  MealCategory `json:"category"   gorm:"type:varchar(32);not null;index;uniqueIndex:ux_meals_name_category,priority:2"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// TableName returns the database table name for Meal.
func (Meal) TableName() string { return "meals" }

// SnapshotDish ties a MenuSnapshot to a Meal for one day's listing, carrying
// that listing's portion descriptor and price. Composite primary key
// (snapshot hash, meal id); one row per meal per snapshot.
//
// Size is free text such as "100g" or "110g/50g"; "-" means the listing had
// no portion info.
type SnapshotDish struct {
	SnapshotHash string    `json:"snapshot_hash" gorm:"type:char(64);primaryKey"`
	MealID       uint      `json:"meal_id"       gorm:"primaryKey"`
	Size         string    `json:"size"          gorm:"type:varchar(32);not null;default:'-'"`
	Price        float64   `json:"price"         gorm:"not null"`
	CreatedAt    time.Time `json:"created_at"`

	// Parent snapshot; dishes are cascade-deleted with it.
	Snapshot MenuSnapshot `json:"-" gorm:"foreignKey:SnapshotHash;references:Hash;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	// The canonical meal this listing refers to.
	Meal Meal `json:"-" gorm:"foreignKey:MealID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for SnapshotDish.
func (SnapshotDish) TableName() string { return "snapshot_dishes" }

// TokenTTL is how long a push registration token is considered valid after
// it was last confirmed, mirroring the Firebase-side retention window.
const TokenTTL = 270 * 24 * time.Hour

// TokenExpired reports whether a token confirmed at tokenTimestamp is past
// its TTL at the given reference time.
func TokenExpired(tokenTimestamp, now time.Time) bool {
	return now.Sub(tokenTimestamp) > TokenTTL
}

// Device identifies a client installation by an opaque device key. It may
// hold a push registration token together with the time that token was last
// confirmed valid; both are nil for devices that never registered for push
// or whose token was invalidated.
type Device struct {
	ID                uint       `json:"id"                 gorm:"primaryKey"`
	DeviceKey         string     `json:"device_key"         gorm:"type:varchar(128);not null;uniqueIndex"`
	RegistrationToken *string    `json:"-"                  gorm:"type:varchar(512)"`
	TokenTimestamp    *time.Time `json:"token_timestamp,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// TableName returns the database table name for Device.
func (Device) TableName() string { return "devices" }

// Subscription associates a device with a meal it wants to be notified
// about. One row per (device, meal) pair.
type Subscription struct {
	ID        uint      `json:"id"         gorm:"primaryKey"`
	DeviceID  uint      `json:"device_id"  gorm:"not null;index;uniqueIndex:ux_subscriptions_device_meal,priority:1"`
	MealID    uint      `json:"meal_id"    gorm:"not null;index;uniqueIndex:ux_subscriptions_device_meal,priority:2"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Device Device `json:"-" gorm:"foreignKey:DeviceID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Meal   Meal   `json:"-" gorm:"foreignKey:MealID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Subscription.
func (Subscription) TableName() string { return "subscriptions" }

// OccupancySample is one reading from the canteen occupancy feed: the number
// of active users at a given wall-clock time plus the feed's own 21-point
// moving average. ExternalTimestamp is the feed's sample time (local canteen
// day); re-ingesting the same sample updates the row in place.
type OccupancySample struct {
	ID                uint      `json:"id"                 gorm:"primaryKey"`
	ExternalTimestamp time.Time `json:"external_timestamp" gorm:"not null;uniqueIndex"`
	ActiveUsers       int       `json:"active_users"       gorm:"not null"`
	MovingAverage21   float64   `json:"moving_average_21"  gorm:"column:moving_average_21;not null"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// TableName returns the database table name for OccupancySample.
func (OccupancySample) TableName() string { return "occupancy_samples" }
