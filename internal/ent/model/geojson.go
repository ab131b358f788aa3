package model

// GeoJSON shapes for the exported layer. The coordinate reference system is
// always WGS84 (EPSG:4326), GeoJSON's default, so no crs member is written.

// FeatureCollection is the root object of the exported layer.
type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

// Feature is one monitoring site as a point feature.
type Feature struct {
	Type       string            `json:"type"`
	Geometry   PointGeometry     `json:"geometry"`
	Properties map[string]string `json:"properties"`
}

// PointGeometry holds [longitude, latitude] per the GeoJSON position order.
type PointGeometry struct {
	Type        string     `json:"type"`
	Coordinates [2]float64 `json:"coordinates"`
}

// ToFeature converts a record into a point feature. The geometry is built
// from coordinates that were already normalized and validated; records never
// reach export with non-numeric coordinates.
func (r Record) ToFeature() Feature {
	props := map[string]string{
		"site_uid":                  r.SiteUID,
		"site_name":                 r.SiteName,
		"dataset_unique_identifier": r.DatasetID,
		"source":                    r.Source,
	}
	if r.Matched {
		props["organization"] = r.Organization
		props["organization_type"] = r.OrganizationType
		props["water_body_type"] = r.WaterBodyType
		props["dataset_name"] = r.DatasetName
	}
	for k, v := range r.Extra {
		if _, clash := props[k]; !clash {
			props[k] = v
		}
	}

	return Feature{
		Type: "Feature",
		Geometry: PointGeometry{
			Type:        "Point",
			Coordinates: [2]float64{r.Lon, r.Lat},
		},
		Properties: props,
	}
}

// NewFeatureCollection assembles the exported collection, preserving the
// record order produced by the layer assembler.
func NewFeatureCollection(recs []Record) FeatureCollection {
	features := make([]Feature, len(recs))
	for i, r := range recs {
		features[i] = r.ToFeature()
	}
	return FeatureCollection{Type: "FeatureCollection", Features: features}
}
