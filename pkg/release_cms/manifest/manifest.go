// Package manifest builds the property list iOS reads to install an
// application over the air (itms-services).
package manifest

import (
	"howett.net/plist"
)

const (
	KindSoftwarePackage = "software-package"
	KindDisplayImage    = "display-image"
	KindSoftware        = "software"
)

type Manifest struct {
	Items []Item `plist:"items"`
}

type Item struct {
	Assets   []Asset  `plist:"assets"`
	Metadata Metadata `plist:"metadata"`
}

type Asset struct {
	Kind string `plist:"kind"`
	URL  string `plist:"url"`
}

type Metadata struct {
	BundleIdentifier string `plist:"bundle-identifier"`
	BundleVersion    string `plist:"bundle-version"`
	Kind             string `plist:"kind"`
	Title            string `plist:"title"`
}

// Params are the values a manifest is built from. ImageURL is optional.
type Params struct {
	DownloadURL      string
	ImageURL         string
	BundleIdentifier string
	BundleVersion    string
	Title            string
}

func Build(p Params) Manifest {
	assets := []Asset{{Kind: KindSoftwarePackage, URL: p.DownloadURL}}
	if p.ImageURL != "" {
		assets = append(assets, Asset{Kind: KindDisplayImage, URL: p.ImageURL})
	}
	return Manifest{
		Items: []Item{{
			Assets: assets,
			Metadata: Metadata{
				BundleIdentifier: p.BundleIdentifier,
				BundleVersion:    p.BundleVersion,
				Kind:             KindSoftware,
				Title:            p.Title,
			},
		}},
	}
}

// Encode renders m as an XML property list.
func Encode(m Manifest) ([]byte, error) {
	return plist.MarshalIndent(m, plist.XMLFormat, "\t")
}
