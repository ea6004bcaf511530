// Where: app/instance-patrol/main.go
// What: Pulumi program for the instance patrol stack.
// Why: Reap EC2 instances whose ExpireAt tag has passed, on a fixed schedule.
package main

import (
	_ "embed"

	"github.com/pulumi/pulumi-aws/sdk/v6/go/aws/cloudwatch"
	"github.com/pulumi/pulumi-aws/sdk/v6/go/aws/iam"
	"github.com/pulumi/pulumi-aws/sdk/v6/go/aws/lambda"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"
)

//go:embed handler/index.py
var handlerSource string

const assumeRolePolicy = `{
  "Version": "2012-10-17",
  "Statement": [{
    "Action": "sts:AssumeRole",
    "Principal": {
      "Service": "lambda.amazonaws.com"
    },
    "Effect": "Allow",
    "Sid": ""
  }]
}`

// InstancePatrol is the component resource holding the patrol stack.
type InstancePatrol struct {
	pulumi.ResourceState
}

func newInstancePatrol(ctx *pulumi.Context, name string, opts ...pulumi.ResourceOption) (*InstancePatrol, error) {
	comp := &InstancePatrol{}
	if err := ctx.RegisterComponentResource("rwhq:orchestration:instance-patrol", name, comp, opts...); err != nil {
		return nil, err
	}

	tags := pulumi.StringMap{"Project": pulumi.String("orchestration/instance-patrol")}

	role, err := iam.NewRole(ctx, "instance-patrol-role", &iam.RoleArgs{
		AssumeRolePolicy: pulumi.String(assumeRolePolicy),
		Tags:             tags,
	}, pulumi.Parent(comp))
	if err != nil {
		return nil, err
	}

	_, err = iam.NewRolePolicyAttachment(ctx, "instance-patrol-basic-execution", &iam.RolePolicyAttachmentArgs{
		Role:      role.Name,
		PolicyArn: pulumi.String("arn:aws:iam::aws:policy/service-role/AWSLambdaBasicExecutionRole"),
	}, pulumi.Parent(comp))
	if err != nil {
		return nil, err
	}

	_, err = iam.NewRolePolicyAttachment(ctx, "instance-patrol-lambda-ec2", &iam.RolePolicyAttachmentArgs{
		Role:      role.Name,
		PolicyArn: pulumi.String("arn:aws:iam::aws:policy/AmazonEC2FullAccess"),
	}, pulumi.Parent(comp))
	if err != nil {
		return nil, err
	}

	function, err := lambda.NewFunction(ctx, "instance-patrol-lambda", &lambda.FunctionArgs{
		Role:    role.Arn,
		Runtime: pulumi.String("python3.11"),
		Handler: pulumi.String("index.lambda_handler"),
		Code: pulumi.NewAssetArchive(map[string]interface{}{
			"index.py": pulumi.NewStringAsset(handlerSource),
		}),
		Timeout: pulumi.Int(60),
		Tags:    tags,
	}, pulumi.Parent(comp))
	if err != nil {
		return nil, err
	}

	rule, err := cloudwatch.NewEventRule(ctx, "instance-patrol-schedule-rule", &cloudwatch.EventRuleArgs{
		ScheduleExpression: pulumi.String("rate(15 minutes)"),
		Tags:               tags,
	}, pulumi.Parent(comp))
	if err != nil {
		return nil, err
	}

	_, err = lambda.NewPermission(ctx, "instance-patrol-lambda-permission", &lambda.PermissionArgs{
		Action:    pulumi.String("lambda:InvokeFunction"),
		Function:  function.Name,
		Principal: pulumi.String("events.amazonaws.com"),
		SourceArn: rule.Arn,
	}, pulumi.Parent(comp))
	if err != nil {
		return nil, err
	}

	_, err = cloudwatch.NewEventTarget(ctx, "instance-patrol-target", &cloudwatch.EventTargetArgs{
		Rule: rule.Name,
		Arn:  function.Arn,
	}, pulumi.Parent(comp))
	if err != nil {
		return nil, err
	}

	if err := ctx.RegisterResourceOutputs(comp, pulumi.Map{
		"function_arn":  function.Arn,
		"function_name": function.Name,
		"rule_arn":      rule.Arn,
	}); err != nil {
		return nil, err
	}

	return comp, nil
}

func main() {
	pulumi.Run(func(ctx *pulumi.Context) error {
		_, err := newInstancePatrol(ctx, "instance-patrol")
		return err
	})
}
