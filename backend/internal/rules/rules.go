// Package rules stores the redirect rules that edge functions consult when
// rewriting requests. Rules live in the deployment's DynamoDB global table
// so every region serves the same set.
package rules

import (
	"context"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/cockroachdb/errors"
)

// Rule maps a host and path to a redirect target.
type Rule struct {
	Host   string `json:"host"`
	Path   string `json:"path"`
	Target string `json:"target"`
	Status int    `json:"status"`
}

// Validate reports whether the rule is storable.
func (r Rule) Validate() error {
	if r.Host == "" || r.Path == "" || r.Target == "" {
		return errors.New("rule requires host, path and target")
	}
	switch r.Status {
	case 301, 302, 307, 308:
		return nil
	default:
		return errors.Newf("unsupported redirect status %d", r.Status)
	}
}

// Client is the subset of the DynamoDB API the store uses.
type Client interface {
	GetItem(ctx context.Context, in *dynamodb.GetItemInput, opts ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, in *dynamodb.PutItemInput, opts ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	DeleteItem(ctx context.Context, in *dynamodb.DeleteItemInput, opts ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	Query(ctx context.Context, in *dynamodb.QueryInput, opts ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
}

// Store persists rules in the single-table layout: pk "RULE#{host}", sk
// "{path}".
type Store struct {
	client Client
	table  string
}

// NewStore creates a store over the given table.
func NewStore(client Client, table string) *Store {
	return &Store{client: client, table: table}
}

// ErrNotFound is returned when no rule exists for a host and path.
var ErrNotFound = errors.New("rule not found")

func rulePK(host string) string { return "RULE#" + host }

// Put stores a rule, replacing any existing one for the same host and path.
func (s *Store) Put(ctx context.Context, rule Rule) error {
	if err := rule.Validate(); err != nil {
		return err
	}

	_, err := s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.table),
		Item: map[string]types.AttributeValue{
			"pk":     &types.AttributeValueMemberS{Value: rulePK(rule.Host)},
			"sk":     &types.AttributeValueMemberS{Value: rule.Path},
			"target": &types.AttributeValueMemberS{Value: rule.Target},
			"status": &types.AttributeValueMemberN{Value: strconv.Itoa(rule.Status)},
		},
	})
	return errors.Wrap(err, "putting rule")
}

// Get returns the rule for a host and path, or ErrNotFound.
func (s *Store) Get(ctx context.Context, host, path string) (Rule, error) {
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.table),
		Key: map[string]types.AttributeValue{
			"pk": &types.AttributeValueMemberS{Value: rulePK(host)},
			"sk": &types.AttributeValueMemberS{Value: path},
		},
	})
	if err != nil {
		return Rule{}, errors.Wrap(err, "getting rule")
	}
	if out.Item == nil {
		return Rule{}, ErrNotFound
	}
	return itemToRule(host, path, out.Item)
}

// Delete removes the rule for a host and path. Deleting a rule that does
// not exist is not an error.
func (s *Store) Delete(ctx context.Context, host, path string) error {
	_, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(s.table),
		Key: map[string]types.AttributeValue{
			"pk": &types.AttributeValueMemberS{Value: rulePK(host)},
			"sk": &types.AttributeValueMemberS{Value: path},
		},
	})
	return errors.Wrap(err, "deleting rule")
}

// ListByHost returns all rules for a host ordered by path.
func (s *Store) ListByHost(ctx context.Context, host string) ([]Rule, error) {
	out, err := s.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(s.table),
		KeyConditionExpression: aws.String("pk = :pk"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: rulePK(host)},
		},
	})
	if err != nil {
		return nil, errors.Wrap(err, "querying rules")
	}

	result := make([]Rule, 0, len(out.Items))
	for _, item := range out.Items {
		sk, ok := item["sk"].(*types.AttributeValueMemberS)
		if !ok {
			return nil, errors.New("rule item missing sk attribute")
		}
		rule, err := itemToRule(host, sk.Value, item)
		if err != nil {
			return nil, err
		}
		result = append(result, rule)
	}
	return result, nil
}

func itemToRule(host, path string, item map[string]types.AttributeValue) (Rule, error) {
	target, ok := item["target"].(*types.AttributeValueMemberS)
	if !ok {
		return Rule{}, errors.New("rule item missing target attribute")
	}
	statusAttr, ok := item["status"].(*types.AttributeValueMemberN)
	if !ok {
		return Rule{}, errors.New("rule item missing status attribute")
	}
	status, err := strconv.Atoi(statusAttr.Value)
	if err != nil {
		return Rule{}, errors.Wrap(err, "parsing rule status")
	}

	return Rule{Host: host, Path: path, Target: target.Value, Status: status}, nil
}
