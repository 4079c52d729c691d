package main

import (
	"github.com/skyfronthq/sfapp/infra/cdk"

	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/jsii-runtime-go"
	"github.com/skyfronthq/sfapp/sfcdk/sfcdkutil"
)

const projectPrefix = "skyfront"

func main() {
	defer jsii.Close()
	app := awscdk.NewApp(nil)

	sfcdkutil.SetupApp(app, sfcdkutil.AppConfig{
		Prefix:                projectPrefix + "-",
		DeployersGroup:        projectPrefix + "-deployers",
		RestrictedDeployments: []string{"Prod"},
	},
		cdk.NewShared,
		cdk.NewDeployment,
	)

	app.Synth(nil)
}
