package dynamo

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/go-idverify-api/internal/domain"
)

// MigrateUsers upgrades legacy user records to the current schema version.
// It runs once at startup rather than backfilling defaults on every load.
//
// v1 records predate the split of the photo ID into front/back images: they
// carry a single photo_id attribute (or, older still, profile_picture). The
// upgrade moves that URL to photo_id_front_url, removes the legacy
// attribute, and stamps schema_version.
func MigrateUsers(ctx context.Context, client *dynamodb.Client, tableName string) error {
	var startKey map[string]types.AttributeValue
	migrated := 0
	for {
		out, err := client.Scan(ctx, &dynamodb.ScanInput{
			TableName:        aws.String(tableName),
			FilterExpression: aws.String("attribute_not_exists(schema_version) OR schema_version < :v"),
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":v": &types.AttributeValueMemberN{Value: fmt.Sprint(domain.SchemaVersionCurrent)},
			},
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			return fmt.Errorf("scan legacy users: %w", err)
		}
		for _, item := range out.Items {
			email, ok := item["email"].(*types.AttributeValueMemberS)
			if !ok {
				continue
			}
			updates, removes := upgradeItem(item)
			if err := applyUpgrade(ctx, client, tableName, email.Value, updates, removes); err != nil {
				return fmt.Errorf("upgrade user %s: %w", email.Value, err)
			}
			migrated++
		}
		if out.LastEvaluatedKey == nil {
			break
		}
		startKey = out.LastEvaluatedKey
	}
	if migrated > 0 {
		slog.Info("migrated legacy user records", "count", migrated)
	}
	return nil
}

// upgradeItem computes the attribute changes that bring a legacy item to the
// current schema. Separated from the I/O so the mapping is testable.
func upgradeItem(item map[string]types.AttributeValue) (updates map[string]interface{}, removes []string) {
	updates = map[string]interface{}{
		"schema_version": domain.SchemaVersionCurrent,
	}

	// A populated current-schema attribute always wins over legacy ones, and
	// photo_id (the newer legacy name) wins over profile_picture. Legacy
	// attributes are removed either way; the stamped version keeps this item
	// out of every later scan.
	copied := hasNonEmptyString(item, "photo_id_front_url")
	for _, legacy := range []string{"photo_id", "profile_picture"} {
		if v, ok := item[legacy].(*types.AttributeValueMemberS); ok {
			if !copied && v.Value != "" {
				updates["photo_id_front_url"] = v.Value
				copied = true
			}
			removes = append(removes, legacy)
		}
	}
	return updates, removes
}

func hasNonEmptyString(item map[string]types.AttributeValue, attr string) bool {
	v, ok := item[attr].(*types.AttributeValueMemberS)
	return ok && v.Value != ""
}

func applyUpgrade(ctx context.Context, client *dynamodb.Client, tableName, email string, updates map[string]interface{}, removes []string) error {
	ue, err := buildUpdateExpr(updates)
	if err != nil {
		return err
	}
	expr := ue.Expr
	for i, attr := range removes {
		nameKey := fmt.Sprintf("#r%d", i)
		ue.Names[nameKey] = attr
		if i == 0 {
			expr += " REMOVE " + nameKey
		} else {
			expr += ", " + nameKey
		}
	}
	_, err = client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(tableName),
		Key:                       strKey("email", email),
		UpdateExpression:          aws.String(expr),
		ExpressionAttributeNames:  ue.Names,
		ExpressionAttributeValues: ue.Values,
	})
	return err
}
