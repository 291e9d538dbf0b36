package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Partner1 Partner = "partner1"
	Partner2 Partner = "partner2"
)

const dateLayout = "2006-01-02"

type (
	// Partner identifies one of the two household members.
	Partner string

	// Date is a calendar day. The wrapped time is always midnight UTC so that
	// two Dates compare equal exactly when they name the same day.
	Date struct {
		time.Time
	}

	Chore struct {
		ID         string `json:"id"`
		Name       string `json:"name"`
		Category   string `json:"category"`
		Points     int    `json:"points"` // magnitude, never negative
		IsNegative bool   `json:"isNegative"`
	}

	// ChoreUpdate carries a partial catalog edit; nil fields are left untouched.
	ChoreUpdate struct {
		Name       *string `json:"name,omitempty"`
		Category   *string `json:"category,omitempty"`
		Points     *int    `json:"points,omitempty"`
		IsNegative *bool   `json:"isNegative,omitempty"`
	}

	// ChoreLog records that a partner did (or incurred) a chore on a day.
	// Points are signed and fixed when the log is created.
	ChoreLog struct {
		ID      string  `json:"id"`
		ChoreID string  `json:"choreId"`
		Partner Partner `json:"partner"`
		Date    Date    `json:"date"`
		Points  int     `json:"points"`
	}

	// LogDetail is a log joined with the chore it was recorded from, as
	// exported to external sheets. ChoreName is empty when the chore is gone.
	LogDetail struct {
		ChoreLog
		ChoreName string
		Category  string
	}
)

var (
	ErrNotFound       = errors.New("not found")
	ErrInvalidPartner = errors.New("invalid partner")
	ErrInvalidDate    = errors.New("invalid date")
	ErrEmptyName      = errors.New("empty chore name")
	ErrNegativePoints = errors.New("points must not be negative")
	ErrNameTooLong    = errors.New("chore name too long (max 200 characters)")
	ErrEmptyChoreID   = errors.New("empty chore id")
)

// IsValidation reports whether err is a rejected input rather than a
// storage or infrastructure failure.
func IsValidation(err error) bool {
	for _, target := range []error{
		ErrInvalidPartner, ErrInvalidDate, ErrEmptyName,
		ErrNegativePoints, ErrNameTooLong, ErrEmptyChoreID,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// Partners returns both partners in display order.
func Partners() []Partner {
	return []Partner{Partner1, Partner2}
}

func (p Partner) IsValid() bool {
	switch p {
	case Partner1, Partner2:
		return true
	default:
		return false
	}
}

func (p Partner) String() string {
	return string(p)
}

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf returns the calendar day of t as seen in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return NewDate(y, int(m), d)
}

// ParseDate parses a YYYY-MM-DD string. 0001-01-01 is rejected: the zero
// Date means "not given" throughout.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil || t.IsZero() {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// AddDays returns the date n days after d (n may be negative).
func (d Date) AddDays(n int) Date {
	return Date{Time: d.Time.AddDate(0, 0, n)}
}

// String formats the date as YYYY-MM-DD; the zero Date formats as "".
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(dateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (c Chore) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	if len(c.Name) > 200 {
		return ErrNameTooLong
	}
	if c.Points < 0 {
		return ErrNegativePoints
	}
	return nil
}

// SignedPoints is the value a log recorded from this chore right now would carry.
func (c Chore) SignedPoints() int {
	if c.IsNegative {
		return -c.Points
	}
	return c.Points
}

// Apply returns c with the non-nil fields of u applied.
func (u ChoreUpdate) Apply(c Chore) Chore {
	if u.Name != nil {
		c.Name = strings.TrimSpace(*u.Name)
	}
	if u.Category != nil {
		c.Category = strings.TrimSpace(*u.Category)
	}
	if u.Points != nil {
		c.Points = *u.Points
	}
	if u.IsNegative != nil {
		c.IsNegative = *u.IsNegative
	}
	return c
}

func (l ChoreLog) Validate() error {
	if strings.TrimSpace(l.ChoreID) == "" {
		return ErrEmptyChoreID
	}
	if !l.Partner.IsValid() {
		return ErrInvalidPartner
	}
	return l.Date.Validate()
}

// DefaultChores is the catalog a fresh household starts with.
func DefaultChores() []Chore {
	return []Chore{
		{ID: "1", Name: "Washing dishes", Category: "Kitchen", Points: 5},
		{ID: "2", Name: "Cooking dinner", Category: "Kitchen", Points: 8},
		{ID: "3", Name: "Taking out trash", Category: "Cleaning", Points: 3},
		{ID: "4", Name: "Vacuuming", Category: "Cleaning", Points: 5},
		{ID: "5", Name: "Laundry", Category: "Cleaning", Points: 6},
		{ID: "6", Name: "Grocery shopping", Category: "Errands", Points: 7},
		{ID: "7", Name: "Left dishes in sink", Category: "Kitchen", Points: 3, IsNegative: true},
		{ID: "8", Name: "Forgot to take out trash", Category: "Cleaning", Points: 2, IsNegative: true},
		{ID: "9", Name: "Left clothes on floor", Category: "Cleaning", Points: 2, IsNegative: true},
	}
}
