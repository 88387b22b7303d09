package wind_test

import (
	"fmt"

	"github.com/couchcryptid/spotmeta/attrib"
	"github.com/couchcryptid/spotmeta/wind"
)

func ExampleFormat() {
	v := wind.NewValue()
	v.Direction, v.Speed, v.Gust = 270, 15, 25
	fmt.Println(wind.Format(v))

	v.Gust = wind.NoData
	fmt.Println(wind.Format(v))
	// Output:
	// 270° 15:25 knots
	// 270° 15 knots
}

func ExampleFromAttributes() {
	v := wind.FromAttributes(attrib.Dict{
		string(attrib.WindDirection): "180",
		string(attrib.WindSpeed):     "10",
	})
	fmt.Println(v)
	// Output: 180° 10 knots
}
