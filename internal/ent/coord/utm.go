package coord

import (
	"fmt"
	"math"
)

// WGS84 ellipsoid and UTM projection constants.
const (
	wgs84A  = 6378137.0
	wgs84F  = 1 / 298.257223563
	utmK0   = 0.9996
	falseE  = 500000.0
	falseNS = 10000000.0
)

// UTMToLatLon converts a UTM easting/northing pair to geographic decimal
// degrees on WGS84 using the standard Redfearn inverse series. Accuracy is
// sub-millimeter within a zone, far inside the sub-meter requirement.
// The zone and hemisphere are fixed per source, never derived from the data.
func UTMToLatLon(easting, northing float64, zone int, south bool) (float64, float64, error) {
	if zone < 1 || zone > 60 {
		return 0, 0, fmt.Errorf("utm zone %d out of range", zone)
	}
	if easting < 100000 || easting > 900000 {
		return 0, 0, &ParseError{
			Raw: fmt.Sprintf("%f", easting), Axis: Lon,
			Msg: "easting outside zone bounds",
		}
	}
	if northing < 0 || northing > falseNS {
		return 0, 0, &ParseError{
			Raw: fmt.Sprintf("%f", northing), Axis: Lat,
			Msg: "northing out of range",
		}
	}

	e2 := wgs84F * (2 - wgs84F)
	ep2 := e2 / (1 - e2)

	x := easting - falseE
	y := northing
	if south {
		y -= falseNS
	}

	// Footpoint latitude from the meridian arc.
	m := y / utmK0
	mu := m / (wgs84A * (1 - e2/4 - 3*e2*e2/64 - 5*e2*e2*e2/256))
	e1 := (1 - math.Sqrt(1-e2)) / (1 + math.Sqrt(1-e2))
	phi1 := mu +
		(3*e1/2-27*e1*e1*e1/32)*math.Sin(2*mu) +
		(21*e1*e1/16-55*e1*e1*e1*e1/32)*math.Sin(4*mu) +
		(151*e1*e1*e1/96)*math.Sin(6*mu) +
		(1097*e1*e1*e1*e1/512)*math.Sin(8*mu)

	sin1, cos1 := math.Sin(phi1), math.Cos(phi1)
	tan1 := sin1 / cos1
	c1 := ep2 * cos1 * cos1
	t1 := tan1 * tan1
	n1 := wgs84A / math.Sqrt(1-e2*sin1*sin1)
	r1 := wgs84A * (1 - e2) / math.Pow(1-e2*sin1*sin1, 1.5)
	d := x / (n1 * utmK0)

	lat := phi1 - (n1 * tan1 / r1) *
		(d*d/2 -
			(5+3*t1+10*c1-4*c1*c1-9*ep2)*math.Pow(d, 4)/24 +
			(61+90*t1+298*c1+45*t1*t1-252*ep2-3*c1*c1)*math.Pow(d, 6)/720)
	lon := (d -
		(1+2*t1+c1)*math.Pow(d, 3)/6 +
		(5-2*c1+28*t1-3*c1*c1+8*ep2+24*t1*t1)*math.Pow(d, 5)/120) / cos1

	lonOrigin := float64(zone)*6 - 183
	return lat * 180 / math.Pi, lonOrigin + lon*180/math.Pi, nil
}
