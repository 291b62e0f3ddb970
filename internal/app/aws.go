package app

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"

	"github.com/m04kA/SMC-CoachBooking/internal/config"
)

// AWSOptions параметры загрузки конфигурации AWS SDK для одного клиента
type AWSOptions struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
}

// DynamoDBAWSOptions статические ключи берутся только здесь: они нужны для локального DynamoDB
func DynamoDBAWSOptions(cfg config.DynamoDBConfig) AWSOptions {
	return AWSOptions{
		Region:          cfg.Region,
		AccessKeyID:     cfg.AccessKeyID,
		SecretAccessKey: cfg.SecretAccessKey,
	}
}

// SESAWSOptions SES всегда ходит со стандартной цепочкой учетных данных
func SESAWSOptions(cfg *config.Config) AWSOptions {
	region := cfg.Email.SESRegion
	if region == "" {
		region = cfg.DynamoDB.Region
	}
	return AWSOptions{Region: region}
}

// LoadAWSConfig загружает конфигурацию AWS SDK по стандартной цепочке
// (окружение, профиль, роль Lambda), статические ключи подменяют ее, если заданы оба.
func LoadAWSConfig(ctx context.Context, opt AWSOptions) (aws.Config, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if opt.Region != "" {
		opts = append(opts, awsconfig.WithRegion(opt.Region))
	}
	if opt.AccessKeyID != "" && opt.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opt.AccessKeyID, opt.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("load aws config: %w", err)
	}
	return awsCfg, nil
}
