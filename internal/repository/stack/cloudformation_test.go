package stack

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/require"
)

// fakeCloudFormation returns canned stack descriptions and records updates.
type fakeCloudFormation struct {
	// stacks is returned from DescribeStacks.
	stacks []types.Stack
	// describeErr is returned from DescribeStacks when set.
	describeErr error
	// lastUpdate records the most recent UpdateStack input.
	lastUpdate *cloudformation.UpdateStackInput
}

func (f *fakeCloudFormation) DescribeStacks(_ context.Context, _ *cloudformation.DescribeStacksInput,
	_ ...func(*cloudformation.Options)) (*cloudformation.DescribeStacksOutput, error) {
	if f.describeErr != nil {
		return nil, f.describeErr
	}

	return &cloudformation.DescribeStacksOutput{Stacks: f.stacks}, nil
}

func (f *fakeCloudFormation) UpdateStack(_ context.Context, params *cloudformation.UpdateStackInput,
	_ ...func(*cloudformation.Options)) (*cloudformation.UpdateStackOutput, error) {
	f.lastUpdate = params

	return &cloudformation.UpdateStackOutput{}, nil
}

// TestCloudFormation_Parameters verifies the description is flattened into
// key/value parameters.
func TestCloudFormation_Parameters(t *testing.T) {
	t.Parallel()

	fake := &fakeCloudFormation{
		stacks: []types.Stack{{
			Parameters: []types.Parameter{
				{ParameterKey: aws.String("ServerEnabled"), ParameterValue: aws.String("false")},
				{ParameterKey: aws.String("ServerTaskCount"), ParameterValue: aws.String("0")},
			},
		}},
	}
	store := NewCloudFormation(fake, "SampleStack", nil)

	params, err := store.Parameters(context.Background())
	require.NoError(t, err)
	require.Equal(t, []Parameter{
		{Key: "ServerEnabled", Value: "false"},
		{Key: "ServerTaskCount", Value: "0"},
	}, params)
}

// TestCloudFormation_ParametersStackAbsent verifies API validation errors
// map to ErrStackNotFound.
func TestCloudFormation_ParametersStackAbsent(t *testing.T) {
	t.Parallel()

	fake := &fakeCloudFormation{
		describeErr: &smithy.GenericAPIError{
			Code:    "ValidationError",
			Message: "Stack with id SampleStack does not exist",
		},
	}
	store := NewCloudFormation(fake, "SampleStack", nil)

	_, err := store.Parameters(context.Background())
	require.ErrorIs(t, err, ErrStackNotFound)
}

// TestCloudFormation_Update verifies the submission shape: one of value or
// use-previous per key, template reuse, and capabilities.
func TestCloudFormation_Update(t *testing.T) {
	t.Parallel()

	fake := &fakeCloudFormation{}
	store := NewCloudFormation(fake, "SampleStack", []string{"CAPABILITY_NAMED_IAM"})

	err := store.Update(context.Background(), []Parameter{
		{Key: "ServerEnabled", Value: "true"},
		{Key: "ServerTaskCount", UsePrevious: true},
	})
	require.NoError(t, err)

	update := fake.lastUpdate
	require.Equal(t, "SampleStack", *update.StackName)
	require.True(t, *update.UsePreviousTemplate)
	require.Equal(t, []types.Capability{types.Capability("CAPABILITY_NAMED_IAM")}, update.Capabilities)

	require.Len(t, update.Parameters, 2)
	require.Equal(t, "true", *update.Parameters[0].ParameterValue)
	require.Nil(t, update.Parameters[0].UsePreviousValue)
	require.Nil(t, update.Parameters[1].ParameterValue)
	require.True(t, *update.Parameters[1].UsePreviousValue)
}
