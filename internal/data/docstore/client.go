package docstore

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"

	"github.com/phoenixvc/mystira-backend/internal/pkg/logger"
	"github.com/phoenixvc/mystira-backend/internal/utils"
)

// NewClient builds the DynamoDB client from the default AWS config chain.
// DOCSTORE_ENDPOINT overrides the endpoint for local development.
func NewClient(ctx context.Context, logg *logger.Logger) (*dynamodb.Client, error) {
	region := utils.GetEnv("AWS_REGION", "us-east-1", logg)
	endpoint := utils.GetEnv("DOCSTORE_ENDPOINT", "", logg)

	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("docstore: load aws config: %w", err)
	}

	client := dynamodb.NewFromConfig(cfg, func(o *dynamodb.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})
	return client, nil
}
