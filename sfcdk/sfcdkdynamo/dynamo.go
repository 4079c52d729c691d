// Package sfcdkdynamo provides the DynamoDB global table construct that
// backs per-deployment data such as the redirect rules the edge functions
// consult.
//
// The primary region owns the table and replicates it to every secondary
// region. The layout is single-table: partition key (pk), sort key (sk) and
// one global secondary index (gsi1).
package sfcdkdynamo

import (
	"strings"

	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsdynamodb"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsiam"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"
	"github.com/skyfronthq/sfapp/sfcdk/sfcdkparams"
	"github.com/skyfronthq/sfapp/sfcdk/sfcdkutil"
)

const paramsNamespace = "dynamo"

// Dynamo provides access to a DynamoDB global table that works across
// regions.
type Dynamo interface {
	// Table returns the table: the real one in the primary region, a
	// reference to the replica elsewhere.
	Table() awsdynamodb.ITableV2

	// GrantReadData grants read permissions on the table and its indexes.
	GrantReadData(grantee awsiam.IGrantable)

	// GrantReadWriteData grants read/write permissions on the table and its
	// indexes.
	GrantReadWriteData(grantee awsiam.IGrantable)
}

// Props configures the Dynamo construct.
type Props struct {
	// Identifier distinguishes this table from others in the same
	// deployment. Defaults to "rules".
	Identifier *string
}

type dynamo struct {
	table awsdynamodb.ITableV2
}

// New creates the Dynamo construct. The primary region creates the global
// table with replicas in all secondary regions and stores the table name in
// SSM; secondary regions look the name up and reference the replica.
func New(scope constructs.Construct, props Props) Dynamo {
	identifier := "rules"
	if props.Identifier != nil && *props.Identifier != "" {
		identifier = *props.Identifier
	}

	constructID := "Dynamo" + sfcdkutil.ResourceName(scope, identifier, sfcdkutil.CasingCamel)
	scope = constructs.NewConstruct(scope, jsii.String(constructID))
	con := &dynamo{}

	region := *awscdk.Stack_Of(scope).Region()
	tableName := sfcdkutil.ResourceName(scope, identifier+"-table", sfcdkutil.CasingKebab)
	deploymentIdent := strings.ToLower(sfcdkutil.DeploymentIdent(scope))
	paramName := deploymentIdent + "/" + identifier + "/table-name"

	if sfcdkutil.IsPrimaryRegion(scope, region) {
		cfg := sfcdkutil.ConfigFromScope(scope)

		table := awsdynamodb.NewTableV2(scope, jsii.String("Table"), &awsdynamodb.TablePropsV2{
			TableName:     jsii.String(tableName),
			PartitionKey:  &awsdynamodb.Attribute{Name: jsii.String("pk"), Type: awsdynamodb.AttributeType_STRING},
			SortKey:       &awsdynamodb.Attribute{Name: jsii.String("sk"), Type: awsdynamodb.AttributeType_STRING},
			Billing:       awsdynamodb.Billing_OnDemand(nil),
			RemovalPolicy: awscdk.RemovalPolicy_DESTROY,
			Replicas:      buildReplicas(cfg.SecondaryRegions),
			PointInTimeRecoverySpecification: &awsdynamodb.PointInTimeRecoverySpecification{
				PointInTimeRecoveryEnabled: jsii.Bool(true),
			},
			GlobalSecondaryIndexes: &[]*awsdynamodb.GlobalSecondaryIndexPropsV2{
				{
					IndexName:    jsii.String("gsi1"),
					PartitionKey: &awsdynamodb.Attribute{Name: jsii.String("gsi1pk"), Type: awsdynamodb.AttributeType_STRING},
					SortKey:      &awsdynamodb.Attribute{Name: jsii.String("gsi1sk"), Type: awsdynamodb.AttributeType_STRING},
				},
			},
		})
		con.table = table

		sfcdkparams.Store(scope, "TableNameParam", paramsNamespace, paramName, jsii.String(tableName))
	} else {
		tableNameLookup := sfcdkparams.Lookup(scope, "LookupTableName",
			paramsNamespace, paramName, identifier+"-table-name-lookup")

		con.table = awsdynamodb.TableV2_FromTableName(scope, jsii.String("Table"), tableNameLookup)
	}

	return con
}

// LookupDynamo retrieves a table reference from SSM without creating
// cross-stack dependencies.
func LookupDynamo(scope constructs.Construct, identifier *string) awsdynamodb.ITableV2 {
	ident := "rules"
	if identifier != nil && *identifier != "" {
		ident = *identifier
	}

	deploymentIdent := strings.ToLower(sfcdkutil.DeploymentIdent(scope))
	paramName := deploymentIdent + "/" + ident + "/table-name"
	tableName := sfcdkparams.LookupLocal(scope, paramsNamespace, paramName)

	return awsdynamodb.TableV2_FromTableName(scope, jsii.String("LookupDynamo"+ident), tableName)
}

func (d *dynamo) Table() awsdynamodb.ITableV2 {
	return d.table
}

func (d *dynamo) GrantReadData(grantee awsiam.IGrantable) {
	d.table.GrantReadData(grantee)
	grantIndexes(grantee, d.table)
}

func (d *dynamo) GrantReadWriteData(grantee awsiam.IGrantable) {
	d.table.GrantReadWriteData(grantee)
	grantIndexes(grantee, d.table)
}

// grantIndexes extends a table grant to its indexes; TableV2 grants do not
// cover index ARNs for imported replicas. Indexes only support reads.
func grantIndexes(grantee awsiam.IGrantable, table awsdynamodb.ITableV2) {
	actions := []*string{
		jsii.String("dynamodb:Query"),
		jsii.String("dynamodb:Scan"),
		jsii.String("dynamodb:GetItem"),
		jsii.String("dynamodb:BatchGetItem"),
		jsii.String("dynamodb:ConditionCheckItem"),
	}

	awsiam.Grant_AddToPrincipal(&awsiam.GrantOnPrincipalOptions{
		Grantee:      grantee,
		ResourceArns: &[]*string{jsii.Sprintf("%s/index/*", *table.TableArn())},
		Actions:      &actions,
	})
}

func buildReplicas(secondaryRegions []string) *[]*awsdynamodb.ReplicaTableProps {
	replicas := make([]*awsdynamodb.ReplicaTableProps, 0, len(secondaryRegions))
	for _, region := range secondaryRegions {
		replicas = append(replicas, &awsdynamodb.ReplicaTableProps{
			Region: jsii.String(region),
			PointInTimeRecoverySpecification: &awsdynamodb.PointInTimeRecoverySpecification{
				PointInTimeRecoveryEnabled: jsii.Bool(true),
			},
		})
	}
	return &replicas
}
