// Package cdk defines the infrastructure: per-region shared stacks with DNS
// and certificates, and per-deployment stacks with the web distribution,
// edge function, API and rules table.
package cdk

import (
	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/skyfronthq/sfapp/sfcdk/sfcdkcerts"
	"github.com/skyfronthq/sfapp/sfcdk/sfcdkdns"
	"github.com/skyfronthq/sfapp/sfcdk/sfcdkutil"
)

// Shared holds the per-region resources that all deployments in the region
// build on.
type Shared struct {
	DNS          sfcdkdns.DNS
	Certificates sfcdkcerts.Certificates
}

// NewShared creates the shared resources for one region's stack.
func NewShared(stack awscdk.Stack) *Shared {
	shared := &Shared{}
	shared.DNS = sfcdkdns.New(stack, sfcdkdns.Props{})

	if !sfcdkutil.DNSDelegated(stack) {
		// Only the hosted zone exists until delegation is done. Deploy,
		// install the zone's NS records at the registrar, then set
		// dns-delegated=true and deploy again.
		return shared
	}

	shared.Certificates = sfcdkcerts.New(stack, sfcdkcerts.Props{
		HostedZone: shared.DNS.HostedZone(),
	})

	return shared
}
