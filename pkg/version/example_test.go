package version_test

import (
	"fmt"

	"github.com/matzehuels/relcat/pkg/version"
)

func ExampleParse() {
	k := version.Parse("5.1.2.Beta4")
	fmt.Println(k.Major, k.FeatureGroup, k.Feature, k.Bugfix)
	// Output: 5 1 2 Beta4
}

func ExampleCompare() {
	fmt.Println(version.Compare("1.0.0.CR1", "1.0.0.Final"))
	fmt.Println(version.Compare("5.10.0.Final", "5.2.0.Final"))
	// Output:
	// -1
	// 1
}
