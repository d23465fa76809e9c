package main

import (
	"flag"
	"fmt"
	"io/ioutil"
	"os"

	"bffnt_editor/bffnt_headers"
)

func main() {
	inFile := flag.String("in", "", "input .bffnt file")
	outFile := flag.String("out", "", "re-encoded output file (optional)")
	flag.BoolVar(&bffnt_headers.Debug, "d", false, "enable debug output")
	flag.Parse()

	if *inFile == "" {
		flag.Usage()
		os.Exit(2)
	}

	raw, err := ioutil.ReadFile(*inFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	var bffnt bffnt_headers.BFFNT
	if err := bffnt.Decode(raw); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", *inFile, err)
		os.Exit(1)
	}

	fmt.Printf("%s: %s %s, version %#08x, %d bytes\n",
		*inFile, bffnt.FFNT.MagicHeader, bffnt.FFNT.Platform, bffnt.FFNT.Version, bffnt.FFNT.TotalFileSize)
	fmt.Printf("  sheets:  %d x %dx%d (%s), cells %dx%d grid %dx%d\n",
		bffnt.TGLP.NumOfSheets, bffnt.TGLP.SheetWidth, bffnt.TGLP.SheetHeight,
		sheetKind(&bffnt.TGLP), bffnt.TGLP.CellWidth, bffnt.TGLP.CellHeight,
		bffnt.TGLP.NumOfColumns, bffnt.TGLP.NumOfRows)
	fmt.Printf("  widths:  %d section(s)\n", len(bffnt.CWDHs))
	fmt.Printf("  charmap: %d section(s), %d characters\n", len(bffnt.CMAPs), len(bffnt.CharMap))
	if bffnt.KRNG != nil {
		fmt.Printf("  kerning: %d bytes\n", bffnt.KRNG.SectionSize)
	}

	if *outFile != "" {
		if err := os.WriteFile(*outFile, bffnt.Encode(), 0644); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		fmt.Printf("wrote %s\n", *outFile)
	}
}

func sheetKind(tglp *bffnt_headers.TGLP) string {
	if tglp.HasBNTX() {
		return "BNTX"
	}
	return fmt.Sprintf("format %d", tglp.SheetImageFormat)
}
