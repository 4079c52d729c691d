// Package sfcdkutil provides shared utilities for the skyfront AWS CDK
// packages.
//
// # Quick Start
//
// Use [SetupApp] to configure a multi-region, multi-deployment CDK application:
//
//	func main() {
//	    defer jsii.Close()
//	    app := awscdk.NewApp(nil)
//
//	    sfcdkutil.SetupApp(app, sfcdkutil.AppConfig{
//	        Prefix:                "skyfront-",
//	        DeployersGroup:        "skyfront-deployers",
//	        RestrictedDeployments: []string{"Stag", "Prod"},
//	    },
//	        func(stack awscdk.Stack) *Shared { return NewShared(stack) },
//	        func(stack awscdk.Stack, shared *Shared, deploymentIdent string) {
//	            NewDeployment(stack, shared, deploymentIdent)
//	        },
//	    )
//
//	    app.Synth(nil)
//	}
//
// # CDK Context Configuration
//
// The package reads configuration from CDK context (cdk.json). With prefix
// "skyfront-":
//
//	{
//	  "skyfront-qualifier": "skyfront",
//	  "skyfront-primary-region": "eu-west-1",
//	  "skyfront-secondary-regions": ["us-east-1"],
//	  "skyfront-deployments": ["Dev", "Stag", "Prod"],
//	  "skyfront-deployer-groups": "skyfront-deployers",
//	  "skyfront-base-domain-name": "skyfront.app"
//	}
//
// # Stack Creation Order
//
// [SetupApp] creates stacks with the following dependency order:
//  1. Primary shared stack
//  2. Secondary shared stacks (depend on primary shared)
//  3. Primary deployment stacks (depend on primary shared)
//  4. Secondary deployment stacks (depend on primary deployment)
//
// Edge support stacks created by sfcdkedge are added to this ordering
// lazily: every stack that hosts an edge function gains a dependency on
// the us-east-1 support stack.
package sfcdkutil
