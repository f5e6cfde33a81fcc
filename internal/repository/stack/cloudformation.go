package stack

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation/types"
	"github.com/aws/smithy-go"

	"github.com/oshokin/minecraft-switchboard/internal/logger"
)

// CloudFormationAPI is the subset of the stack client the store uses.
type CloudFormationAPI interface {
	DescribeStacks(ctx context.Context, params *cloudformation.DescribeStacksInput,
		optFns ...func(*cloudformation.Options)) (*cloudformation.DescribeStacksOutput, error)
	UpdateStack(ctx context.Context, params *cloudformation.UpdateStackInput,
		optFns ...func(*cloudformation.Options)) (*cloudformation.UpdateStackOutput, error)
}

// CloudFormation reads and updates the parameters of one named stack.
type CloudFormation struct {
	// client performs the stack operations.
	client CloudFormationAPI
	// stackName identifies the target stack.
	stackName string
	// capabilities are required for updates that touch IAM resources.
	capabilities []types.Capability
}

// NewCloudFormation creates a store bound to the named stack.
func NewCloudFormation(client CloudFormationAPI, stackName string, capabilities []string) *CloudFormation {
	caps := make([]types.Capability, 0, len(capabilities))
	for _, c := range capabilities {
		caps = append(caps, types.Capability(c))
	}

	return &CloudFormation{
		client:       client,
		stackName:    stackName,
		capabilities: caps,
	}
}

// Parameters returns the current parameter set of the stack.
// Stacks with one name cannot coexist, so the first description is taken.
func (s *CloudFormation) Parameters(ctx context.Context) ([]Parameter, error) {
	out, err := s.client.DescribeStacks(ctx, &cloudformation.DescribeStacksInput{
		StackName: aws.String(s.stackName),
	})
	if err != nil {
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) {
			logger.WarnKV(ctx, "Stack is not found", "stack_name", s.stackName)

			return nil, fmt.Errorf("%w: %s", ErrStackNotFound, s.stackName)
		}

		return nil, fmt.Errorf("describe stack %s: %w", s.stackName, err)
	}

	if len(out.Stacks) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrStackNotFound, s.stackName)
	}

	parameters := make([]Parameter, 0, len(out.Stacks[0].Parameters))
	for _, p := range out.Stacks[0].Parameters {
		parameters = append(parameters, Parameter{
			Key:   aws.ToString(p.ParameterKey),
			Value: aws.ToString(p.ParameterValue),
		})
	}

	return parameters, nil
}

// Update submits the merged parameter list against the deployed template.
func (s *CloudFormation) Update(ctx context.Context, parameters []Parameter) error {
	submitted := make([]types.Parameter, 0, len(parameters))

	for _, p := range parameters {
		if p.UsePrevious {
			submitted = append(submitted, types.Parameter{
				ParameterKey:     aws.String(p.Key),
				UsePreviousValue: aws.Bool(true),
			})

			continue
		}

		submitted = append(submitted, types.Parameter{
			ParameterKey:   aws.String(p.Key),
			ParameterValue: aws.String(p.Value),
		})
	}

	_, err := s.client.UpdateStack(ctx, &cloudformation.UpdateStackInput{
		StackName:           aws.String(s.stackName),
		Parameters:          submitted,
		UsePreviousTemplate: aws.Bool(true),
		Capabilities:        s.capabilities,
	})
	if err != nil {
		return fmt.Errorf("update stack %s: %w", s.stackName, err)
	}

	return nil
}
