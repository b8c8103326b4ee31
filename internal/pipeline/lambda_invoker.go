package pipeline

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awslambda "github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/lambda/types"
)

type lambdaAPI interface {
	Invoke(ctx context.Context, params *awslambda.InvokeInput, optFns ...func(*awslambda.Options)) (*awslambda.InvokeOutput, error)
}

// LambdaInvoker calls the generator function synchronously through the AWS
// Lambda Invoke API.
type LambdaInvoker struct {
	client       lambdaAPI
	functionName string
}

func NewLambdaInvoker(client lambdaAPI, functionName string) *LambdaInvoker {
	return &LambdaInvoker{client: client, functionName: functionName}
}

// NewLambdaInvokerFromEnv builds the client from the default AWS credential
// chain. An empty region falls back to AWS_REGION.
func NewLambdaInvokerFromEnv(ctx context.Context, region, functionName string) (*LambdaInvoker, error) {
	var optFns []func(*awsconfig.LoadOptions) error
	if region != "" {
		optFns = append(optFns, awsconfig.WithRegion(region))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, optFns...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return NewLambdaInvoker(awslambda.NewFromConfig(cfg), functionName), nil
}

func (i *LambdaInvoker) Invoke(ctx context.Context, req GenerateRequest) (GenerateResponse, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return GenerateResponse{}, fmt.Errorf("failed to marshal request: %w", err)
	}

	out, err := i.client.Invoke(ctx, &awslambda.InvokeInput{
		FunctionName:   aws.String(i.functionName),
		InvocationType: types.InvocationTypeRequestResponse,
		Payload:        payload,
	})
	if err != nil {
		return GenerateResponse{}, fmt.Errorf("failed to invoke %s: %w", i.functionName, err)
	}
	if out.FunctionError != nil {
		return GenerateResponse{}, fmt.Errorf("%s returned %s: %s", i.functionName, aws.ToString(out.FunctionError), string(out.Payload))
	}
	if out.StatusCode != 200 {
		return GenerateResponse{}, fmt.Errorf("%s returned status %d", i.functionName, out.StatusCode)
	}

	var resp GenerateResponse
	if err := json.Unmarshal(out.Payload, &resp); err != nil {
		return GenerateResponse{}, fmt.Errorf("failed to parse %s response: %w", i.functionName, err)
	}
	return resp, nil
}
