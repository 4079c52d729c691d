package sfcdkparams_test

import (
	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsroute53"
	"github.com/aws/jsii-runtime-go"
	"github.com/skyfronthq/sfapp/sfcdk/sfcdkparams"
	"github.com/skyfronthq/sfapp/sfcdk/sfcdkutil"
)

// Example_dnsConstruct demonstrates storing and looking up DNS-related
// parameters. The namespace "dns" groups all DNS-related values together.
func Example_dnsConstruct() {
	defer jsii.Close()

	ctx := map[string]any{
		"myapp-qualifier":         "myapp",
		"myapp-primary-region":    "eu-west-1",
		"myapp-secondary-regions": []any{"us-east-1"},
		"myapp-deployments":       []any{"Dev", "Prod"},
		"myapp-base-domain-name":  "example.com",
	}

	app := awscdk.NewApp(&awscdk.AppProps{Context: &ctx})
	cfg, err := sfcdkutil.NewConfig(app, sfcdkutil.AppConfig{Prefix: "myapp-"})
	if err != nil {
		panic(err)
	}
	sfcdkutil.StoreConfig(app, cfg)

	stack := awscdk.NewStack(app, jsii.String("DnsStack"), &awscdk.StackProps{
		Env: &awscdk.Environment{Region: jsii.String("eu-west-1")},
	})

	const namespace = "dns"

	if cfg.IsPrimaryRegion("eu-west-1") {
		zone := awsroute53.NewHostedZone(stack, jsii.String("HostedZone"),
			&awsroute53.HostedZoneProps{
				ZoneName: jsii.String("example.com"),
			})

		sfcdkparams.Store(stack, "HostedZoneIDParam", namespace, "hosted-zone-id", zone.HostedZoneId())
		sfcdkparams.Store(stack, "HostedZoneArnParam", namespace, "hosted-zone-arn", zone.HostedZoneArn())
	}
	// Output:
}

// Example_secondaryRegionLookup demonstrates referencing primary-region
// values from a secondary region without cross-stack exports.
func Example_secondaryRegionLookup() {
	defer jsii.Close()

	ctx := map[string]any{
		"myapp-qualifier":         "myapp",
		"myapp-primary-region":    "eu-west-1",
		"myapp-secondary-regions": []any{"us-east-1"},
		"myapp-deployments":       []any{"Dev", "Prod"},
		"myapp-base-domain-name":  "example.com",
	}

	app := awscdk.NewApp(&awscdk.AppProps{Context: &ctx})
	cfg, err := sfcdkutil.NewConfig(app, sfcdkutil.AppConfig{Prefix: "myapp-"})
	if err != nil {
		panic(err)
	}
	sfcdkutil.StoreConfig(app, cfg)

	stack := awscdk.NewStack(app, jsii.String("SecondaryStack"), &awscdk.StackProps{
		Env: &awscdk.Environment{Region: jsii.String("us-east-1")},
	})

	hostedZoneID := sfcdkparams.Lookup(stack, "LookupHostedZoneID",
		"dns", "hosted-zone-id", "hosted-zone-id-lookup")

	_ = awsroute53.HostedZone_FromHostedZoneAttributes(stack, jsii.String("HostedZone"),
		&awsroute53.HostedZoneAttributes{
			HostedZoneId: hostedZoneID,
			ZoneName:     jsii.String("example.com"),
		})
	// Output:
}
