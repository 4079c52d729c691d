// Package sfcdkcerts provides the ACM wildcard certificate construct for
// multi-region deployments.
//
// Certificates are regional, so every region creates its own, all validated
// against the same Route53 hosted zone. Create this construct only after
// DNS delegation is complete, or validation will hang.
package sfcdkcerts

import (
	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awscertificatemanager"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsroute53"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"
	"github.com/cockroachdb/errors"
	"github.com/skyfronthq/sfapp/sfcdk/sfcdkparams"
	"github.com/skyfronthq/sfapp/sfcdk/sfcdkutil"
)

const paramsNamespace = "certs"

// edgeRegion is where CloudFront requires its certificates to live.
const edgeRegion = "us-east-1"

// Certificates provides access to a wildcard ACM certificate.
type Certificates interface {
	// WildcardCertificate returns the ACM wildcard certificate
	// (*.domain.com) for API Gateway, ALB and other regional consumers.
	WildcardCertificate() awscertificatemanager.ICertificate
}

// Props configures the Certificates construct.
type Props struct {
	// HostedZone is the Route53 zone used for DNS validation. Required.
	HostedZone awsroute53.IHostedZone
}

type certificates struct {
	certificate awscertificatemanager.ICertificate
}

func (c *certificates) WildcardCertificate() awscertificatemanager.ICertificate {
	return c.certificate
}

// New creates a wildcard certificate for *.{zoneName} with DNS validation
// and publishes its ARN to SSM for lookups from other stacks.
func New(scope constructs.Construct, props Props) Certificates {
	scope = constructs.NewConstruct(scope, jsii.String("Certificates"))
	con := &certificates{}

	con.certificate = awscertificatemanager.NewCertificate(scope, jsii.String("WildcardCertificate"),
		&awscertificatemanager.CertificateProps{
			DomainName: jsii.String("*." + *props.HostedZone.ZoneName()),
			Validation: awscertificatemanager.CertificateValidation_FromDns(props.HostedZone),
		})

	sfcdkparams.Store(scope, "CertificateArnParam", paramsNamespace, "wildcard-cert-arn",
		con.certificate.CertificateArn())

	return con
}

// LookupCertificate retrieves the region's wildcard certificate from SSM.
// Use this for references that must not create cross-stack dependencies.
func LookupCertificate(scope constructs.Construct) awscertificatemanager.ICertificate {
	certArn := sfcdkparams.LookupLocal(scope, paramsNamespace, "wildcard-cert-arn")
	return awscertificatemanager.Certificate_FromCertificateArn(scope,
		jsii.String("LookupWildcardCertificate"), certArn)
}

// LookupEdgeCertificate retrieves the us-east-1 wildcard certificate for
// use with CloudFront, which only accepts certificates from that region.
// Stacks in us-east-1 read it locally; other stacks read it through a
// cross-region parameter lookup, which requires that a Certificates
// construct was deployed in us-east-1 (it must be the primary region or one
// of the configured secondary regions).
func LookupEdgeCertificate(scope constructs.Construct) awscertificatemanager.ICertificate {
	region := *awscdk.Stack_Of(scope).Region()

	var certArn *string
	if region == edgeRegion {
		certArn = sfcdkparams.LookupLocal(scope, paramsNamespace, "wildcard-cert-arn")
	} else {
		cfg := sfcdkutil.ConfigFromScope(scope)
		if !hasRegion(cfg.AllRegions(), edgeRegion) {
			panic(errors.Newf(
				"CloudFront certificates must live in %s, but no configured region covers it", edgeRegion))
		}
		certArn = sfcdkparams.LookupInRegion(scope, "LookupEdgeCertArn",
			paramsNamespace, "wildcard-cert-arn", "edge-cert-arn-lookup", edgeRegion)
	}

	return awscertificatemanager.Certificate_FromCertificateArn(scope,
		jsii.String("LookupEdgeCertificate"), certArn)
}

func hasRegion(regions []string, region string) bool {
	for _, r := range regions {
		if r == region {
			return true
		}
	}
	return false
}
