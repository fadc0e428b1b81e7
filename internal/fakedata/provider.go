// Package fakedata implements domain.FakeDataProvider on top of gofakeit.
package fakedata

import (
	"math/rand/v2"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/locvowork/companygen/internal/domain"
)

var _ domain.FakeDataProvider = (*Provider)(nil)

// Provider draws names, phrases and dates from a gofakeit faker.
type Provider struct {
	faker *gofakeit.Faker
	title cases.Caser
}

// New builds a provider over src. Pass the same source the generator's
// *rand.Rand uses so a single seed drives the whole run.
func New(src rand.Source) *Provider {
	return &Provider{
		faker: gofakeit.NewFaker(src, false),
		title: cases.Title(language.English),
	}
}

// PersonName returns a first and last name.
func (p *Provider) PersonName() string {
	return p.faker.Name()
}

// BusinessPhrase returns a title-cased buzzword phrase such as
// "Synergize Scalable Markets".
func (p *Provider) BusinessPhrase() string {
	return p.title.String(p.faker.BS())
}

// DateBetween returns a calendar date (UTC midnight) in [start, end].
func (p *Provider) DateBetween(start, end time.Time) time.Time {
	start, end = Day(start), Day(end)
	if !end.After(start) {
		return start
	}
	return Day(p.faker.DateRange(start, end))
}

// Day truncates t to midnight UTC of its calendar date.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
