// Package sfcdkweb provides the web distribution construct: a CloudFront
// distribution serving static content from S3, forwarding /api/* to the
// regional API, and running edge function handlers on viewer requests.
//
// Edge handlers are attached through their version ARN, which sfcdkedge
// resolves at deployment time regardless of which region defined them.
package sfcdkweb

import (
	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awscertificatemanager"
	"github.com/aws/aws-cdk-go/awscdk/v2/awscloudfront"
	"github.com/aws/aws-cdk-go/awscdk/v2/awscloudfrontorigins"
	"github.com/aws/aws-cdk-go/awscdk/v2/awslambda"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsroute53"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsroute53targets"
	"github.com/aws/aws-cdk-go/awscdk/v2/awss3"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"
	"github.com/cockroachdb/errors"
	"github.com/iancoleman/strcase"
	"github.com/skyfronthq/sfapp/sfcdk/sfcdkedge"
	"github.com/skyfronthq/sfapp/sfcdk/sfcdkutil"
)

// Web provides access to the CloudFront web distribution.
type Web interface {
	// Distribution returns the CloudFront distribution.
	Distribution() awscloudfront.Distribution
	// Bucket returns the S3 bucket holding the static content.
	Bucket() awss3.IBucket
	// DomainName returns the distribution's custom domain name
	// (e.g., "dev-web.skyfront.app").
	DomainName() string
}

// Props configures the Web construct.
type Props struct {
	// HostedZone is the Route53 zone for the alias record. Required.
	HostedZone awsroute53.IHostedZone
	// Certificate is the ACM certificate for the custom domain. CloudFront
	// requires it to live in us-east-1; use
	// sfcdkcerts.LookupEdgeCertificate. Required.
	Certificate awscertificatemanager.ICertificate
	// Subdomain is the subdomain prefix (e.g., "web"), combined with the
	// deployment to form the full name. Required.
	Subdomain *string
	// APIDomainName routes /api/* to this origin when set (e.g., the
	// regional API's domain name).
	APIDomainName *string
	// ViewerRequestHandler runs on every viewer request when set. The
	// handler applies redirect rules before the request reaches the cache.
	ViewerRequestHandler sfcdkedge.EdgeFunction
}

type web struct {
	distribution awscloudfront.Distribution
	bucket       awss3.IBucket
	domainName   string
}

// New creates the web distribution.
func New(scope constructs.Construct, props Props) Web {
	if props.HostedZone == nil || props.Certificate == nil || props.Subdomain == nil {
		panic(errors.New("sfcdkweb: HostedZone, Certificate and Subdomain are required"))
	}

	scope = constructs.NewConstruct(scope, jsii.String(strcase.ToCamel(*props.Subdomain)+"Web"))
	con := &web{}

	deploymentIdent := sfcdkutil.DeploymentIdent(scope)
	con.domainName = sfcdkutil.GlobalSubdomain(deploymentIdent, *props.Subdomain) +
		"." + *props.HostedZone.ZoneName()

	con.bucket = awss3.NewBucket(scope, jsii.String("ContentBucket"), &awss3.BucketProps{
		BucketName:        jsii.String(sfcdkutil.ResourceName(scope, *props.Subdomain+"-content", sfcdkutil.CasingKebab)),
		BlockPublicAccess: awss3.BlockPublicAccess_BLOCK_ALL(),
		RemovalPolicy:     awscdk.RemovalPolicy_DESTROY,
	})

	var edgeLambdas *[]*awscloudfront.EdgeLambda
	if props.ViewerRequestHandler != nil {
		// The version is referenced by ARN so it can live in the us-east-1
		// support stack without a cross-region CloudFormation reference.
		version := awslambda.Version_FromVersionArn(scope, jsii.String("ViewerRequestVersion"),
			props.ViewerRequestHandler.FunctionArn())
		edgeLambdas = &[]*awscloudfront.EdgeLambda{
			{
				EventType:       awscloudfront.LambdaEdgeEventType_VIEWER_REQUEST,
				FunctionVersion: version,
			},
		}
	}

	behaviors := map[string]*awscloudfront.BehaviorOptions{}
	if props.APIDomainName != nil {
		behaviors["/api/*"] = &awscloudfront.BehaviorOptions{
			Origin: awscloudfrontorigins.NewHttpOrigin(props.APIDomainName,
				&awscloudfrontorigins.HttpOriginProps{
					ProtocolPolicy: awscloudfront.OriginProtocolPolicy_HTTPS_ONLY,
				}),
			AllowedMethods:       awscloudfront.AllowedMethods_ALLOW_ALL(),
			CachePolicy:          awscloudfront.CachePolicy_CACHING_DISABLED(),
			OriginRequestPolicy:  awscloudfront.OriginRequestPolicy_ALL_VIEWER_EXCEPT_HOST_HEADER(),
			ViewerProtocolPolicy: awscloudfront.ViewerProtocolPolicy_REDIRECT_TO_HTTPS,
		}
	}

	con.distribution = awscloudfront.NewDistribution(scope, jsii.String("Distribution"),
		&awscloudfront.DistributionProps{
			DefaultBehavior: &awscloudfront.BehaviorOptions{
				Origin:               awscloudfrontorigins.S3BucketOrigin_WithOriginAccessControl(con.bucket, nil),
				ViewerProtocolPolicy: awscloudfront.ViewerProtocolPolicy_REDIRECT_TO_HTTPS,
				EdgeLambdas:          edgeLambdas,
			},
			AdditionalBehaviors: &behaviors,
			DefaultRootObject:   jsii.String("index.html"),
			DomainNames:         jsii.Strings(con.domainName),
			Certificate:         props.Certificate,
			PriceClass:          awscloudfront.PriceClass_PRICE_CLASS_100,
		})

	awsroute53.NewARecord(scope, jsii.String("DnsRecord"), &awsroute53.ARecordProps{
		Zone:       props.HostedZone,
		RecordName: jsii.String(con.domainName),
		Target: awsroute53.RecordTarget_FromAlias(
			awsroute53targets.NewCloudFrontTarget(con.distribution)),
	})

	awscdk.NewCfnOutput(scope, jsii.String("WebURL"), &awscdk.CfnOutputProps{
		Key:         jsii.String(strcase.ToCamel(*props.Subdomain) + "WebURL"),
		Description: jsii.String("Web distribution URL"),
		Value:       jsii.String("https://" + con.domainName),
	})

	return con
}

func (w *web) Distribution() awscloudfront.Distribution {
	return w.distribution
}

func (w *web) Bucket() awss3.IBucket {
	return w.bucket
}

func (w *web) DomainName() string {
	return w.domainName
}
