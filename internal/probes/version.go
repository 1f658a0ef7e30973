package probes

import (
	"github.com/rileyhilliard/fwdash/internal/errors"
	"github.com/rileyhilliard/fwdash/internal/remote"
)

// ProductVersionPath holds the appliance's product identity.
const ProductVersionPath = "/usr/local/opnsense/version/core"

// Product is the appliance's product identity.
type Product struct {
	Name    string `json:"product_name"`
	Version string `json:"product_version"`
	Arch    string `json:"product_arch"`
}

// ProductVersion reads the product identity file.
type ProductVersion struct{}

func (ProductVersion) Command() string { return "sftp get " + ProductVersionPath }

func (ProductVersion) Invoke(s Session) (Product, error) {
	p, err := remote.DecodeFileJSON[Product](s, ProductVersionPath)
	if err != nil {
		return Product{}, err
	}
	if p.Name == "" || p.Version == "" {
		return Product{}, errors.Decodef(nil, "%s has no product_name or product_version", ProductVersionPath)
	}
	return p, nil
}

// OSVersion reads the kernel name and release, e.g. "FreeBSD 14.1-RELEASE-p5".
type OSVersion struct{}

func (OSVersion) Command() string { return "/usr/bin/uname -sr" }

func (p OSVersion) Invoke(s Session) (string, error) {
	return remote.ReadLine(s, p.Command())
}
