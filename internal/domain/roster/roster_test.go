package roster_test

import (
	"errors"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/okian/archer/internal/domain/model"
	"github.com/okian/archer/internal/domain/roster"
	. "github.com/smartystreets/goconvey/convey"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

const header = "Serial No.,Coach Name,Batch Time (Days/Time),Level\n"

func coachesSorted(coaches []model.Coach) bool {
	c := collate.New(language.English)
	for i := 1; i < len(coaches); i++ {
		if c.CompareString(coaches[i-1].Name, coaches[i].Name) > 0 {
			return false
		}
	}
	return true
}

func batchesSorted(batches []model.Batch) bool {
	c := collate.New(language.English)
	for i := 1; i < len(batches); i++ {
		if c.CompareString(batches[i-1].Name, batches[i].Name) > 0 {
			return false
		}
	}
	return true
}

func TestParse(t *testing.T) {
	Convey("Given roster CSV sources", t, func() {
		Convey("When the source has a header and one data row", func() {
			r := roster.Parse(header + "1,Sahil Bhoyar,TF 5 PM IST,Intermediate\n")

			Convey("Then the roster has one coach with one batch", func() {
				coaches := r.Coaches()
				So(len(coaches), ShouldEqual, 1)
				So(coaches[0].Name, ShouldEqual, "Sahil Bhoyar")
				So(coaches[0].Batches, ShouldResemble, []model.Batch{{Name: "TF 5 PM IST", Level: "Intermediate"}})
			})
		})

		Convey("When the source is empty or header only", func() {
			Convey("Then an empty roster is returned", func() {
				So(roster.Parse("").Len(), ShouldEqual, 0)
				So(roster.Parse(header).Len(), ShouldEqual, 0)
			})
		})

		Convey("When a coach name matches the alias table", func() {
			r := roster.Parse(header +
				"1,Aayush,FS 8 PM IST,Intermediate\n" +
				"2,  Chandresh ,WS 6 PM IST,Beginner\n" +
				"3,Ambarish,MTH 7 PM IST,AL-2\n")

			Convey("Then the corrected names are used", func() {
				So(r.Names(), ShouldResemble, []string{"Ambarnish", "Ayush Bharadwaj", "Chandreesh"})
				_, ok := r.Coach("Aayush")
				So(ok, ShouldBeFalse)
			})
		})

		Convey("When a caller edits the default alias table it was given", func() {
			aliases := roster.DefaultAliases()
			aliases["Aayush"] = "Someone Else"
			delete(aliases, "Chandresh")
			r := roster.Parse(header +
				"1,Aayush,FS 8 PM IST,Intermediate\n" +
				"2,Chandresh,WS 6 PM IST,Beginner\n")

			Convey("Then later rosters still use the built-in corrections", func() {
				So(r.Names(), ShouldResemble, []string{"Ayush Bharadwaj", "Chandreesh"})
				So(roster.DefaultAliases()["Aayush"], ShouldEqual, "Ayush Bharadwaj")
			})
		})

		Convey("When a custom alias table is supplied", func() {
			r := roster.Parse(header+"1,Sarang,TTH 4 PM IST,Intermediate\n",
				roster.WithAliases(map[string]string{"Sarang": "Sarang Joshi"}))

			Convey("Then it replaces the defaults", func() {
				So(r.Names(), ShouldResemble, []string{"Sarang Joshi"})
				So(r.Normalize("Aayush"), ShouldEqual, "Aayush")
			})
		})

		Convey("When rows are malformed", func() {
			type skip struct {
				line   int
				reason string
			}
			var skipped []skip
			r := roster.Parse(header+
				"1,Dilip,MT 8 PM IST\n"+
				"\n"+
				"2,,MW 5 PM IST,Beginner\n"+
				"3,Dilip,MW 3 PM IST,Intermediate\n",
				roster.WithSkipHook(func(line int, reason string) {
					skipped = append(skipped, skip{line, reason})
				}))

			Convey("Then they are dropped silently and reported to the hook", func() {
				So(r.Len(), ShouldEqual, 1)
				So(r.BatchCount(), ShouldEqual, 1)
				So(skipped, ShouldResemble, []skip{
					{2, roster.ReasonTooFewFields},
					{4, roster.ReasonEmptyCoach},
				})
			})
		})

		Convey("When a row opens a quote it never closes", func() {
			var skipped []int
			r := roster.Parse(header+
				`1,"Sahil,TF 5 PM IST,Intermediate`+"\n"+
				"2,Sarang,MF 5 PM IST,Beginner\n"+
				"3,Gaurav,SS 10 AM IST,AL-1\n"+
				"4,Dilip,WS 8 PM IST,AL-2\n",
				roster.WithSkipHook(func(line int, _ string) {
					skipped = append(skipped, line)
				}))

			Convey("Then only that row is dropped and the following rows load", func() {
				So(skipped, ShouldResemble, []int{2})
				So(r.Names(), ShouldResemble, []string{"Dilip", "Gaurav", "Sarang"})
				So(r.BatchCount(), ShouldEqual, 3)
				b, ok := r.Batch("Gaurav", "SS 10 AM IST")
				So(ok, ShouldBeTrue)
				So(b.Level, ShouldEqual, "AL-1")
			})
		})

		Convey("When the source uses CRLF line endings", func() {
			r := roster.Parse("Serial No.,Coach Name,Batch Time (Days/Time),Level\r\n" +
				"1,Dilip,MT 8 PM IST,Intermediate\r\n")

			Convey("Then the carriage returns are not kept in the level", func() {
				b, ok := r.Batch("Dilip", "MT 8 PM IST")
				So(ok, ShouldBeTrue)
				So(b.Level, ShouldEqual, "Intermediate")
			})
		})

		Convey("When rows carry extra fields or quotes", func() {
			r := roster.Parse(header + `1,"Kavita Sharma","MF 11 AM IST",Beginner,extra` + "\n")

			Convey("Then the first four fields are used", func() {
				b, ok := r.Batch("Kavita Sharma", "MF 11 AM IST")
				So(ok, ShouldBeTrue)
				So(b.Level, ShouldEqual, "Beginner")
			})
		})

		Convey("When a coach has several rows including repeats", func() {
			r := roster.Parse(header +
				"1,Sarvesh,TW 9 PM IST,Intermediate\n" +
				"2,Sarvesh,FS 7 PM IST,Intermediate\n" +
				"3,Sarvesh,TW 9 PM IST,AL-1\n" +
				"4,Sarvesh,FS 8 PM IST,Intermediate\n")

			Convey("Then every row is a batch, sorted by name and stable on ties", func() {
				c, ok := r.Coach("Sarvesh")
				So(ok, ShouldBeTrue)
				So(c.Batches, ShouldResemble, []model.Batch{
					{Name: "FS 7 PM IST", Level: "Intermediate"},
					{Name: "FS 8 PM IST", Level: "Intermediate"},
					{Name: "TW 9 PM IST", Level: "Intermediate"},
					{Name: "TW 9 PM IST", Level: "AL-1"},
				})
			})
		})

		Convey("When coach names differ in case and alphabet order differs from byte order", func() {
			r := roster.Parse(header +
				"1,Bravo,A,Beginner\n" +
				"2,alpha,B,Beginner\n" +
				"3,Charlie,C,Beginner\n" +
				"4,ALPHA,D,Beginner\n")

			Convey("Then coaches are ordered alphabetically and case variants share a coach", func() {
				So(r.Names(), ShouldResemble, []string{"alpha", "Bravo", "Charlie"})
				c, _ := r.Coach("alpha")
				So(len(c.Batches), ShouldEqual, 2)
			})
		})
	})
}

func TestLoad(t *testing.T) {
	Convey("Given a source that fails mid-read", t, func() {
		src := iotest.TimeoutReader(strings.NewReader(header + "1,Dilip,MT 8 PM IST,Intermediate\n"))

		Convey("When loading", func() {
			r, err := roster.Load(src)

			Convey("Then ErrReadSource is returned alongside a usable roster", func() {
				So(errors.Is(err, roster.ErrReadSource), ShouldBeTrue)
				So(r, ShouldNotBeNil)
			})
		})
	})
}

func TestDefault(t *testing.T) {
	Convey("Given the embedded academy roster", t, func() {
		r := roster.Default()

		Convey("Then every row is loaded under normalised coach names", func() {
			So(r.Len(), ShouldEqual, 35)
			So(r.BatchCount(), ShouldEqual, 121)
			names := r.Names()
			So(names[0], ShouldEqual, "Abhijeet Sharma")
			So(names[len(names)-1], ShouldEqual, "Yogesh Waran")
			So(names, ShouldContain, "Ayush Bharadwaj")
			So(names, ShouldNotContain, "Aayush")
		})

		Convey("And coaches and their batches are sorted", func() {
			coaches := r.Coaches()
			So(coachesSorted(coaches), ShouldBeTrue)
			for _, c := range coaches {
				So(batchesSorted(c.Batches), ShouldBeTrue)
			}
			sahil, _ := r.Coach("Sahil Bhoyar")
			So(len(sahil.Batches), ShouldEqual, 11)
			So(sahil.Batches[0].Name, ShouldEqual, "MS 6 PM IST")
			So(sahil.Batches[10].Name, ShouldEqual, "WS 5 PM IST")
		})
	})
}

func TestAddCoach(t *testing.T) {
	Convey("Given a roster", t, func() {
		r := roster.Parse(header + "1,Dilip,MT 8 PM IST,Intermediate\n")

		Convey("When adding a new coach", func() {
			err := r.AddCoach("  Anand  ")

			Convey("Then it is inserted trimmed, empty and in order", func() {
				So(err, ShouldBeNil)
				So(r.Names(), ShouldResemble, []string{"Anand", "Dilip"})
				c, ok := r.Coach("Anand")
				So(ok, ShouldBeTrue)
				So(c.Batches, ShouldBeEmpty)
			})
		})

		Convey("When adding X then a case variant of X", func() {
			So(r.AddCoach("X"), ShouldBeNil)
			err := r.AddCoach("x")

			Convey("Then the second is rejected and only one X remains", func() {
				So(errors.Is(err, roster.ErrDuplicateCoach), ShouldBeTrue)
				var dup *roster.DuplicateCoachError
				So(errors.As(err, &dup), ShouldBeTrue)
				So(dup.Name, ShouldEqual, "x")
				count := 0
				for _, n := range r.Names() {
					if strings.EqualFold(n, "x") {
						count++
					}
				}
				So(count, ShouldEqual, 1)
				So(r.Len(), ShouldEqual, 2)
			})
		})

		Convey("When adding a blank name", func() {
			err := r.AddCoach("   ")

			Convey("Then it is rejected", func() {
				So(errors.Is(err, roster.ErrInvalidCoachName), ShouldBeTrue)
				So(r.Len(), ShouldEqual, 1)
			})
		})
	})
}

func TestAddBatch(t *testing.T) {
	Convey("Given a roster", t, func() {
		r := roster.Parse(header + "1,Dilip,TF 6 PM IST,AL-1\n")
		before := r.Coaches()

		Convey("When adding a batch to an unknown coach", func() {
			ok := r.AddBatch("Nobody", model.Batch{Name: "MW 2 PM IST", Level: "Beginner"})

			Convey("Then nothing changes", func() {
				So(ok, ShouldBeFalse)
				So(r.Coaches(), ShouldResemble, before)
			})
		})

		Convey("When the coach name only matches ignoring case", func() {
			ok := r.AddBatch("dilip", model.Batch{Name: "MW 2 PM IST"})

			Convey("Then it is not applied", func() {
				So(ok, ShouldBeFalse)
				So(r.BatchCount(), ShouldEqual, 1)
			})
		})

		Convey("When adding batches to an existing coach", func() {
			So(r.AddBatch("Dilip", model.Batch{Name: "MW 2 PM IST", Level: "Intermediate"}), ShouldBeTrue)
			So(r.AddBatch("Dilip", model.Batch{Name: "MW 2 PM IST", Level: "Intermediate"}), ShouldBeTrue)

			Convey("Then they are appended in call order, duplicates allowed", func() {
				c, _ := r.Coach("Dilip")
				So(c.Batches, ShouldResemble, []model.Batch{
					{Name: "TF 6 PM IST", Level: "AL-1"},
					{Name: "MW 2 PM IST", Level: "Intermediate"},
					{Name: "MW 2 PM IST", Level: "Intermediate"},
				})
			})
		})
	})
}

func TestLookups(t *testing.T) {
	Convey("Given two coaches", t, func() {
		r := roster.Parse(header +
			"1,Dilip,TF 6 PM IST,AL-1\n" +
			"2,Sarang,MF 5 PM IST,Beginner\n")

		Convey("When looking up a batch owned by another coach", func() {
			_, ok := r.Batch("Dilip", "MF 5 PM IST")

			Convey("Then it is not found", func() {
				So(ok, ShouldBeFalse)
			})
		})

		Convey("When looking up a batch of an unknown coach", func() {
			_, ok := r.Batch("Nobody", "MF 5 PM IST")
			So(ok, ShouldBeFalse)
		})

		Convey("When callers mutate a returned coach", func() {
			c, _ := r.Coach("Dilip")
			c.Batches[0].Level = "Expert"

			Convey("Then the roster is unaffected", func() {
				b, _ := r.Batch("Dilip", "TF 6 PM IST")
				So(b.Level, ShouldEqual, "AL-1")
			})
		})
	})
}

func TestOrderingInvariant(t *testing.T) {
	Convey("Given a sequence of roster mutations", t, func() {
		r := roster.Default()
		ops := []string{"Zubin", "anita", "Mihir Vaid", "Bhavesh", "zeel", "ANITA", "Kiran"}

		Convey("Then the coach list stays sorted after every call", func() {
			for i, name := range ops {
				_ = r.AddCoach(name)
				So(coachesSorted(r.Coaches()), ShouldBeTrue)
				_ = r.AddBatch(name, model.Batch{Name: "Slot", Level: model.Levels[i%len(model.Levels)]})
				So(coachesSorted(r.Coaches()), ShouldBeTrue)
			}
			So(r.Len(), ShouldEqual, 35+5)
		})
	})
}
