package models

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// DateOnly is a calendar date. It is stored in a DATE column and
// serialized as YYYY-MM-DD, unlike the RFC3339 timestamps everywhere else.
type DateOnly struct {
	time.Time
}

func NewDateOnly(year int, month time.Month, day int) DateOnly {
	return DateOnly{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

func (d DateOnly) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(dateLayout) + `"`), nil
}

func (d *DateOnly) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		d.Time = time.Time{}
		return nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

func (d DateOnly) Value() (driver.Value, error) {
	return d.Format(dateLayout), nil
}

func (d *DateOnly) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		d.Time = time.Time{}
		return nil
	case time.Time:
		d.Time = v
		return nil
	case []byte:
		return d.parse(string(v))
	case string:
		return d.parse(v)
	}
	return fmt.Errorf("cannot scan %T into DateOnly", value)
}

func (d *DateOnly) parse(s string) error {
	for _, layout := range []string{dateLayout, time.RFC3339, "2006-01-02 15:04:05-07:00"} {
		if t, err := time.Parse(layout, s); err == nil {
			d.Time = t
			return nil
		}
	}
	return fmt.Errorf("cannot parse %q as date", s)
}

func (DateOnly) GormDataType() string {
	return "date"
}
