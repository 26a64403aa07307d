package mongostore

import (
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	pmongo "github.com/pedidoz/backoffice/pkg/mongo"
)

const (
	plansCollection    = "organization_plans"
	invoicesCollection = "invoices"
)

// Indexes declares the billing indexes, including the unique gateway reference of invoices.
func Indexes() pmongo.Indexes {
	return pmongo.Indexes{
		plansCollection: {
			{
				Keys:    bson.D{{Key: "organization_id", Value: 1}, {Key: "start_date", Value: 1}, {Key: "end_date", Value: 1}},
				Options: options.Index().SetName("organization_plan_period"),
			},
		},
		invoicesCollection: {
			{
				Keys:    bson.D{{Key: "integration_type", Value: 1}, {Key: "integration_id", Value: 1}},
				Options: options.Index().SetUnique(true).SetName("invoice_integration_unique"),
			},
			{
				Keys:    bson.D{{Key: "organization_plan_id", Value: 1}, {Key: "created_at", Value: 1}},
				Options: options.Index().SetName("invoice_organization_plan"),
			},
			{
				Keys:    bson.D{{Key: "status", Value: 1}, {Key: "created_at", Value: 1}},
				Options: options.Index().SetName("invoice_status_created"),
			},
		},
	}
}
