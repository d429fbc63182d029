package names_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/okian/matchday/internal/domain/names"
	. "github.com/smartystreets/goconvey/convey"
)

const tinyCorpus = `
norway:
  male: [Ola]
  female: []
  last: [Nordmann]
england:
  male: [[James, Jim]]
  female: [Emma]
  last: [Smith]
`

func TestNew(t *testing.T) {
	Convey("Given generator construction", t, func() {
		Convey("When the selection is supported", func() {
			g, err := names.New(names.Male, names.Norway)

			Convey("Then the config is echoed back", func() {
				So(err, ShouldBeNil)
				So(g.Config(), ShouldResemble, names.Config{Gender: names.Male, Country: names.Norway})
			})
		})

		Convey("When the country is unknown", func() {
			_, err := names.New(names.Male, names.Country("mars"))

			So(errors.Is(err, names.ErrUnsupportedCountry), ShouldBeTrue)
		})

		Convey("When the gender is unknown", func() {
			_, err := names.New(names.Gender("robot"), names.Norway)

			So(errors.Is(err, names.ErrUnsupportedGender), ShouldBeTrue)
		})

		Convey("When the selection has no first names", func() {
			_, err := names.New(names.Female, names.Norway, names.WithCorpus([]byte(tinyCorpus)))

			So(errors.Is(err, names.ErrNoNames), ShouldBeTrue)
		})

		Convey("When only one country can serve the selection", func() {
			g, err := names.New(names.Female, names.AllCountries, names.WithCorpus([]byte(tinyCorpus)), names.WithSeed(1))

			Convey("Then every name comes from that country", func() {
				So(err, ShouldBeNil)
				for _, n := range g.GenerateNames(20) {
					So(n, ShouldEqual, "Emma Smith")
				}
			})
		})

		Convey("When the corpus is malformed", func() {
			_, err := names.New(names.Male, names.Norway, names.WithCorpus([]byte("norway: {male: [{a: b}]}")))

			So(errors.Is(err, names.ErrInvalidCorpus), ShouldBeTrue)
		})
	})
}

func TestGenerate(t *testing.T) {
	Convey("Given a seeded english male generator on a tiny corpus", t, func() {
		g, err := names.New(names.Male, names.England, names.WithCorpus([]byte(tinyCorpus)), names.WithSeed(42))
		So(err, ShouldBeNil)

		Convey("When names are generated", func() {
			got := g.GenerateNames(30)

			Convey("Then spelling variants are both used", func() {
				So(got, ShouldHaveLength, 30)
				So(got, ShouldContain, "James Smith")
				So(got, ShouldContain, "Jim Smith")
			})
		})

		Convey("When more unique names are requested than exist", func() {
			got := g.GenerateUniqueNames(5)

			Convey("Then the attempt budget stops the search", func() {
				So(len(got), ShouldBeLessThanOrEqualTo, 2)
				So(len(got), ShouldBeGreaterThan, 0)
			})
		})

		Convey("When zero names are requested", func() {
			So(g.GenerateNames(0), ShouldBeEmpty)
			So(g.GenerateUniqueNames(0), ShouldBeEmpty)
		})
	})

	Convey("Given the embedded corpus", t, func() {
		g, err := names.New(names.All, names.AllCountries, names.WithSeed(7))
		So(err, ShouldBeNil)

		Convey("Then names have a first and last part", func() {
			for _, n := range g.GenerateNames(50) {
				So(strings.Count(n, " "), ShouldBeGreaterThanOrEqualTo, 1)
			}
		})

		Convey("Then unique names are distinct", func() {
			got := g.GenerateUniqueNames(25)
			seen := map[string]bool{}
			for _, n := range got {
				So(seen[n], ShouldBeFalse)
				seen[n] = true
			}
			So(got, ShouldHaveLength, 25)
		})
	})
}
