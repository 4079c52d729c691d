// Package sfcdkdns provides the Route53 hosted zone construct for
// multi-region deployments.
//
// The primary region owns the zone and publishes its id to SSM Parameter
// Store; secondary regions resolve the stored id and reference the same
// zone instead of recreating it.
package sfcdkdns

import (
	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsroute53"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"
	"github.com/skyfronthq/sfapp/sfcdk/sfcdkparams"
	"github.com/skyfronthq/sfapp/sfcdk/sfcdkutil"
)

// NameServersOutputKey is the CloudFormation output key carrying the zone's
// NS records. Retrieve it with `aws cloudformation describe-stacks` to
// complete delegation at the registrar.
const NameServersOutputKey = "HostedZoneNameServers"

const paramsNamespace = "dns"

// DNS provides access to a Route53 hosted zone that works across regions.
type DNS interface {
	// HostedZone returns the zone: the real one in the primary region, a
	// reference to it elsewhere.
	HostedZone() awsroute53.IHostedZone
}

// Props configures the DNS construct.
type Props struct {
	// ZoneDomainName is the domain for the hosted zone. Defaults to the
	// base domain name from config.
	ZoneDomainName *string
}

type dns struct {
	hostedZone awsroute53.IHostedZone
}

// New creates the DNS construct. The primary region creates the zone and
// stores its id; secondary regions look the id up and reference the zone.
func New(scope constructs.Construct, props Props) DNS {
	scope = constructs.NewConstruct(scope, jsii.String("DNS"))
	con := &dns{}

	zoneName := props.ZoneDomainName
	if zoneName == nil {
		zoneName = sfcdkutil.BaseDomainNamePtr(scope)
	}

	region := *awscdk.Stack_Of(scope).Region()

	if sfcdkutil.IsPrimaryRegion(scope, region) {
		hostedZone := awsroute53.NewHostedZone(scope, jsii.String("HostedZone"),
			&awsroute53.HostedZoneProps{
				ZoneName: zoneName,
			})
		con.hostedZone = hostedZone

		sfcdkparams.Store(scope, "HostedZoneIDParam", paramsNamespace, "hosted-zone-id",
			hostedZone.HostedZoneId())

		awscdk.NewCfnOutput(awscdk.Stack_Of(scope), jsii.String(NameServersOutputKey),
			&awscdk.CfnOutputProps{
				Value:       awscdk.Fn_Join(jsii.String(","), hostedZone.HostedZoneNameServers()),
				Description: jsii.String("Comma-separated list of NS records for DNS delegation"),
			})
	} else {
		hostedZoneID := sfcdkparams.Lookup(scope, "LookupHostedZoneID",
			paramsNamespace, "hosted-zone-id", "hosted-zone-id-lookup")

		con.hostedZone = awsroute53.HostedZone_FromHostedZoneAttributes(scope,
			jsii.String("HostedZone"), &awsroute53.HostedZoneAttributes{
				HostedZoneId: hostedZoneID,
				ZoneName:     zoneName,
			})
	}

	return con
}

func (d *dns) HostedZone() awsroute53.IHostedZone {
	return d.hostedZone
}
