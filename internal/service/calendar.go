package service

import (
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/example/newspulse-bot/pkg/holidays"
)

// HolidayClient describes the part of the holidays client used here.
type HolidayClient interface {
	PublicHolidays(ctx context.Context, year int, countryCode string) ([]holidays.Holiday, error)
}

const (
	holidaysTTL   = 12 * time.Hour
	holidaysLimit = 5
)

// CalendarService serves upcoming public holidays, cached per country.
type CalendarService struct {
	client HolidayClient
	cache  *ttlCache[[]holidays.Holiday]
	now    func() time.Time
}

func NewCalendarService(client HolidayClient) *CalendarService {
	return &CalendarService{
		client: client,
		cache:  newTTLCache[[]holidays.Holiday](holidaysTTL),
		now:    time.Now,
	}
}

// Upcoming returns the next few holidays for the country, today included.
func (s *CalendarService) Upcoming(ctx context.Context, countryCode string) ([]holidays.Holiday, error) {
	countryCode = strings.ToUpper(strings.TrimSpace(countryCode))
	year := s.now().Year()
	all, err := s.cache.get(ctx, countryCode, func(ctx context.Context) ([]holidays.Holiday, error) {
		return s.client.PublicHolidays(ctx, year, countryCode)
	})
	if err != nil {
		return nil, err
	}
	today := s.now().Format("2006-01-02")
	upcoming := make([]holidays.Holiday, 0, holidaysLimit)
	for _, h := range all {
		// dates are ISO, so string comparison orders correctly
		if h.Date < today {
			continue
		}
		upcoming = append(upcoming, h)
		if len(upcoming) == holidaysLimit {
			break
		}
	}
	if len(upcoming) == 0 {
		return nil, ErrNoContent
	}
	return upcoming, nil
}

// FormatHolidays renders upcoming holidays as Telegram HTML.
func (s *CalendarService) FormatHolidays(hs []holidays.Holiday) string {
	var b strings.Builder
	b.WriteString("🗓 <b>Upcoming holidays</b>\n\n")
	for _, h := range hs {
		name := h.LocalName
		if name == "" {
			name = h.Name
		}
		date := h.Date
		if d, err := time.Parse("2006-01-02", h.Date); err == nil {
			date = d.Format("02.01")
		}
		fmt.Fprintf(&b, "▪️ <b>%s</b> — %s\n", date, html.EscapeString(name))
	}
	return b.String()
}
