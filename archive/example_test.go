package archive_test

import (
	"fmt"

	"github.com/meigma/upkg/archive"
)

func Example() {
	w := archive.NewWriter()
	version := uint16(69)
	count := int32(-1000)
	_ = archive.Uint16(w, &version)
	_ = archive.Index(w, &count)
	fmt.Printf("% x\n", w.Bytes())

	r := archive.NewReader(w.Bytes())
	var gotVersion uint16
	var gotCount int32
	_ = archive.Uint16(r, &gotVersion)
	_ = archive.Index(r, &gotCount)
	fmt.Println(gotVersion, gotCount, r.Pos())
	// Output:
	// 45 00 e8 0f
	// 69 -1000 4
}
