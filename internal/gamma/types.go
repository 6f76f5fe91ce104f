// Package gamma provides a client for the Polymarket Gamma API.
package gamma

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/johan/polymarket-moonshot/internal/types"
)

// flexFloat unmarshals from a JSON number or a numeric string. Gamma sends
// volume and liquidity as strings and their *Num twins as numbers.
// null and "" decode to zero. NaN and infinities are rejected.
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = 0
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			*f = 0
			return nil
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("numeric string %q: %w", s, err)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("numeric string %q: not a finite number", s)
		}
		*f = flexFloat(v)
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*f = flexFloat(v)
	return nil
}

// encodedArray holds the raw JSON of an array that Gamma sends either
// inline or encoded inside a string, as with outcomes and outcomePrices.
// null and "" decode to empty.
type encodedArray string

func (a *encodedArray) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*a = ""
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*a = encodedArray(strings.TrimSpace(s))
	case len(data) > 0 && data[0] == '[':
		*a = encodedArray(data)
	default:
		return fmt.Errorf("want an array or an encoded array, got %s", data)
	}
	return nil
}

// Event is the parent event embedded in a market response.
type Event struct {
	ID    string `json:"id"`
	Slug  string `json:"slug"`
	Title string `json:"title"`
}

// Market represents a prediction market as returned by the Gamma API.
type Market struct {
	ID             string    `json:"id"`
	Question       string    `json:"question"`
	Slug           string    `json:"slug"`
	Category       string    `json:"category"`
	GroupItemTitle string    `json:"groupItemTitle"`
	Volume         flexFloat `json:"volume"`
	VolumeNum      flexFloat `json:"volumeNum"`
	Liquidity      flexFloat `json:"liquidity"`
	LiquidityNum   flexFloat `json:"liquidityNum"`
	EndDate        string    `json:"endDate"`
	EndDateISO     string    `json:"endDateIso"`

	OutcomePrices encodedArray `json:"outcomePrices"`
	Outcomes      encodedArray `json:"outcomes"`

	Events []Event `json:"events,omitempty"`
}

// ParseOutcomes parses Outcomes into a slice of outcome names.
func (m *Market) ParseOutcomes() ([]string, error) {
	if m.Outcomes == "" {
		return nil, nil
	}
	var outcomes []string
	if err := json.Unmarshal([]byte(m.Outcomes), &outcomes); err != nil {
		return nil, err
	}
	return outcomes, nil
}

// ParseOutcomePrices parses OutcomePrices into float prices.
func (m *Market) ParseOutcomePrices() ([]float64, error) {
	if m.OutcomePrices == "" {
		return nil, nil
	}
	var raw []flexFloat
	if err := json.Unmarshal([]byte(m.OutcomePrices), &raw); err != nil {
		return nil, err
	}
	prices := make([]float64, len(raw))
	for i, p := range raw {
		prices[i] = float64(p)
	}
	return prices, nil
}

var errOutcomeMismatch = errors.New("no price for the yes outcome")

// YesIndex returns the position of the "Yes" outcome. Markets without
// outcome labels, or without a "Yes" label, price yes first.
func (m *Market) YesIndex() (int, error) {
	outcomes, err := m.ParseOutcomes()
	if err != nil {
		return 0, fmt.Errorf("outcomes: %w", err)
	}
	for i, o := range outcomes {
		if strings.EqualFold(strings.TrimSpace(o), "yes") {
			return i, nil
		}
	}
	return 0, nil
}

// YesPrice returns the price of the yes outcome, or 0 when the market
// carries no prices.
func (m *Market) YesPrice() (float64, error) {
	idx, err := m.YesIndex()
	if err != nil {
		return 0, err
	}
	prices, err := m.ParseOutcomePrices()
	if err != nil {
		return 0, fmt.Errorf("outcomePrices: %w", err)
	}
	if len(prices) == 0 {
		return 0, nil
	}
	if idx >= len(prices) {
		return 0, fmt.Errorf("%w: outcome %d of %d prices", errOutcomeMismatch, idx, len(prices))
	}
	return prices[idx], nil
}

// CategoryName prefers the group item title over the coarse category.
func (m *Market) CategoryName() string {
	if m.GroupItemTitle != "" {
		return m.GroupItemTitle
	}
	return m.Category
}

// EventSlug returns the parent event slug, falling back to the market slug.
func (m *Market) EventSlug() string {
	for _, e := range m.Events {
		if e.Slug != "" {
			return e.Slug
		}
	}
	return m.Slug
}

// ParseEndDate parses endDate (RFC 3339) or endDateIso (date only).
// A market with neither returns the zero time.
func (m *Market) ParseEndDate() (time.Time, error) {
	if m.EndDate != "" {
		t, err := time.Parse(time.RFC3339, m.EndDate)
		if err != nil {
			return time.Time{}, fmt.Errorf("endDate %q: %w", m.EndDate, err)
		}
		return t.UTC(), nil
	}
	if m.EndDateISO != "" {
		t, err := time.Parse("2006-01-02", m.EndDateISO)
		if err != nil {
			return time.Time{}, fmt.Errorf("endDateIso %q: %w", m.EndDateISO, err)
		}
		return t, nil
	}
	return time.Time{}, nil
}

// ToRecord validates the market and converts it into a MarketRecord.
// eventBaseURL is prefixed to the event slug to build the record URL.
func (m *Market) ToRecord(eventBaseURL string) (types.MarketRecord, error) {
	if m.ID == "" {
		return types.MarketRecord{}, fmt.Errorf("missing id")
	}
	if m.Question == "" {
		return types.MarketRecord{}, fmt.Errorf("market %s: missing question", m.ID)
	}

	price, err := m.YesPrice()
	if err != nil {
		return types.MarketRecord{}, fmt.Errorf("market %s: %w", m.ID, err)
	}

	end, err := m.ParseEndDate()
	if err != nil {
		return types.MarketRecord{}, fmt.Errorf("market %s: %w", m.ID, err)
	}

	volume := float64(m.VolumeNum)
	if volume == 0 {
		volume = float64(m.Volume)
	}
	liquidity := float64(m.LiquidityNum)
	if liquidity == 0 {
		liquidity = float64(m.Liquidity)
	}

	rec := types.MarketRecord{
		ID:        m.ID,
		Question:  m.Question,
		Slug:      m.Slug,
		Category:  m.CategoryName(),
		YesPrice:  price,
		Volume:    volume,
		Liquidity: liquidity,
		EndDate:   end,
	}
	if slug := m.EventSlug(); slug != "" {
		rec.URL = eventBaseURL + slug
	}
	return rec, nil
}

// Filter contains query parameters for the markets listing.
type Filter struct {
	Active    *bool
	Closed    *bool
	TagSlug   string
	Order     string
	Ascending bool
	Limit     int
}
