// type1dump reads a Type 1 font program and prints its header fields and
// glyph count, optionally the code-to-name table and one glyph's outline as
// it is interpreted.
package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	flag "github.com/spf13/pflag"

	"github.com/type1go/type1font/type1"
)

var log = logrus.New()

type dumpSink struct{}

func (dumpSink) MoveTo(x, y float32) { fmt.Printf("  moveto %g %g\n", x, y) }
func (dumpSink) LineTo(x, y float32) { fmt.Printf("  lineto %g %g\n", x, y) }
func (dumpSink) CurveTo(x1, y1, x2, y2, x3, y3 float32) {
	fmt.Printf("  curveto %g %g %g %g %g %g\n", x1, y1, x2, y2, x3, y3)
}
func (dumpSink) ClosePath() { fmt.Println("  closepath") }

func main() {
	glyph := flag.String("glyph", "", "name of a single glyph to interpret and dump")
	dumpEncoding := flag.Bool("dump-encoding", false, "print the code-to-name table for every resolvable code")
	verbose := flag.BoolP("verbose", "v", false, "enable debug logging")
	flag.Parse()

	if *verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: type1dump [flags] <font-file>")
		os.Exit(2)
	}
	path := flag.Arg(0)

	data, err := os.ReadFile(path)
	if err != nil {
		log.WithField("path", path).WithError(err).Fatal("reading font file")
	}

	table, err := type1.Parse(data)
	if err != nil {
		log.WithField("path", path).WithError(err).Fatal("parsing font")
	}

	names := table.GlyphNames()
	log.WithFields(logrus.Fields{
		"path":      path,
		"font_name": table.FontName,
		"glyphs":    len(names),
	}).Debug("parsed font")

	fmt.Printf("FontName: %s\n", table.FontName)
	fmt.Printf("FontMatrix: %v\n", table.FontMatrix)
	fmt.Printf("Glyphs: %d\n", len(names))

	if *dumpEncoding {
		for code := 0; code < 256; code++ {
			if name, ok := table.CodeToName(byte(code)); ok {
				fmt.Printf("  %3d -> %s\n", code, name)
			}
		}
	}

	if *glyph != "" {
		width, hasWidth, err := table.OutlineByName(*glyph, dumpSink{})
		if err != nil {
			log.WithField("glyph", *glyph).WithError(err).Fatal("interpreting glyph")
		}
		fmt.Printf("glyph %s:\n", *glyph)
		if hasWidth {
			fmt.Printf("  width %g\n", width)
		}
	}
}
