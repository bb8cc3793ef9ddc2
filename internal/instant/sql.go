package instant

import (
	"database/sql/driver"
	"fmt"
	"time"

	"serotonyl.ru/kogda-bot/internal/common"
)

// Null: метка для хранилищ, где вместо NULL лежит нулевая метка.
// Пишется и читается в каноническом формате в поясе Location
// (по умолчанию Europe/Moscow).
type Null struct {
	Instant  *Instant
	Valid    bool
	Location *time.Location
}

// NewNull оборачивает метку (nil: пустое значение).
func NewNull(i *Instant) Null {
	return Null{Instant: i, Valid: i != nil}
}

// Scan реализует sql.Scanner.
func (n *Null) Scan(src any) error {
	n.Instant, n.Valid = nil, false

	opts := Options{Location: n.Location}
	var s string
	switch v := src.(type) {
	case nil:
		return nil
	case string:
		s = v
	case []byte:
		s = string(v)
	case time.Time:
		n.Instant, n.Valid = FromTime(v, opts), true
		return nil
	default:
		return fmt.Errorf("%w: нельзя прочитать %T как временную метку", common.ErrType, src)
	}

	i, err := ParseNullable(s, opts)
	if err != nil {
		return err
	}
	n.Instant, n.Valid = i, i != nil
	return nil
}

// Value реализует driver.Valuer: пустое значение пишется нулевой меткой.
func (n Null) Value() (driver.Value, error) {
	if !n.Valid || n.Instant == nil {
		return Zero, nil
	}
	i := n.Instant
	if n.Location != nil {
		i = i.In(n.Location)
	}
	return i.Format(), nil
}
