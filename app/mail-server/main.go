// Where: app/mail-server/main.go
// What: Pulumi program for the mail server stack.
// Why: Provision the SSM-backed mail host as one component resource.
package main

import (
	"encoding/base64"
	"fmt"
	"os"
	"time"

	"github.com/pulumi/pulumi-aws/sdk/v6/go/aws/ec2"
	"github.com/pulumi/pulumi-aws/sdk/v6/go/aws/iam"
	"github.com/pulumi/pulumi-aws/sdk/v6/go/aws/ssm"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"
)

const (
	configParameterName = "/mail-server/config"
	amiNamePattern      = "al2023-ami-2023.9.20251117.1-kernel-6.1-x86_64"
)

const assumeRolePolicy = `{
  "Version": "2012-10-17",
  "Statement": [{
    "Effect": "Allow",
    "Principal": {"Service": "ec2.amazonaws.com"},
    "Action": "sts:AssumeRole"
  }]
}`

const ssmReadPolicy = `{
  "Version": "2012-10-17",
  "Statement": [{
    "Effect": "Allow",
    "Action": [
      "ssm:GetParameter",
      "ssm:GetParameters",
      "ssm:GetParametersByPath"
    ],
    "Resource": "arn:aws:ssm:*:*:parameter/mail-server/*"
  }]
}`

// MailServer is the component resource holding the whole stack.
type MailServer struct {
	pulumi.ResourceState
}

func newMailServer(ctx *pulumi.Context, name string, opts ...pulumi.ResourceOption) (*MailServer, error) {
	comp := &MailServer{}
	if err := ctx.RegisterComponentResource("rwhq:mail-server", name, comp, opts...); err != nil {
		return nil, err
	}

	tags := pulumi.StringMap{"Project": pulumi.String("mail-server")}

	// IAM role for the instance to read its config from SSM Parameter Store.
	role, err := iam.NewRole(ctx, "mail-server-instance-role", &iam.RoleArgs{
		AssumeRolePolicy: pulumi.String(assumeRolePolicy),
		Tags:             tags,
	}, pulumi.Parent(comp))
	if err != nil {
		return nil, err
	}

	_, err = iam.NewRolePolicyAttachment(ctx, "mail-server-ssm-core", &iam.RolePolicyAttachmentArgs{
		Role:      role.Name,
		PolicyArn: pulumi.String("arn:aws:iam::aws:policy/AmazonSSMManagedInstanceCore"),
	}, pulumi.Parent(comp))
	if err != nil {
		return nil, err
	}

	_, err = iam.NewRolePolicy(ctx, "mail-server-ssm-read-policy", &iam.RolePolicyArgs{
		Role:   role.ID(),
		Policy: pulumi.String(ssmReadPolicy),
	}, pulumi.Parent(comp))
	if err != nil {
		return nil, err
	}

	profile, err := iam.NewInstanceProfile(ctx, "mail-server-instance-profile", &iam.InstanceProfileArgs{
		Role: role.Name,
	}, pulumi.Parent(comp))
	if err != nil {
		return nil, err
	}

	ami, err := ec2.LookupAmi(ctx, &ec2.LookupAmiArgs{
		MostRecent: pulumi.BoolRef(true),
		Owners:     []string{"amazon"},
		Filters: []ec2.GetAmiFilter{{
			Name:   "name",
			Values: []string{amiNamePattern},
		}},
	})
	if err != nil {
		return nil, err
	}

	parameterValue, adopt, err := resolveConfigValue(ctx)
	if err != nil {
		return nil, err
	}

	// When config.json is absent locally, keep managing the parameter
	// but never overwrite the value already stored in AWS.
	parameterOpts := []pulumi.ResourceOption{pulumi.Parent(comp)}
	if adopt {
		parameterOpts = append(parameterOpts, pulumi.IgnoreChanges([]string{"value"}))
	}
	_, err = ssm.NewParameter(ctx, "mail-server-config-parameter", &ssm.ParameterArgs{
		Name:  pulumi.String(configParameterName),
		Type:  pulumi.String("SecureString"),
		Value: pulumi.String(parameterValue),
		Tags:  tags,
	}, parameterOpts...)
	if err != nil {
		return nil, err
	}

	userData, err := buildUserData()
	if err != nil {
		return nil, err
	}

	// Spot keeps the testing footprint cheap; instance-patrol reaps it
	// once ExpireAt passes.
	instance, err := ec2.NewSpotInstanceRequest(ctx, "mail_server_instance", &ec2.SpotInstanceRequestArgs{
		Ami:                pulumi.String(ami.Id),
		InstanceType:       pulumi.String("t3.micro"),
		IamInstanceProfile: profile.Name,
		Tags: pulumi.StringMap{
			"Project":  pulumi.String("mail-server"),
			"ExpireAt": pulumi.String(time.Now().UTC().Add(time.Hour).Format(time.RFC3339)),
		},
		UserDataBase64: pulumi.String(base64.StdEncoding.EncodeToString([]byte(userData))),
	}, pulumi.Parent(comp))
	if err != nil {
		return nil, err
	}

	if err := ctx.RegisterResourceOutputs(comp, pulumi.Map{
		"instance_role_arn":  role.Arn,
		"ssm_config_path":    pulumi.String(configParameterName),
		"instance_id":        instance.SpotInstanceId,
		"instance_public_ip": instance.PublicIp,
	}); err != nil {
		return nil, err
	}

	return comp, nil
}

// resolveConfigValue prefers a local data/config.json; without one it
// adopts the parameter value that already exists in AWS.
func resolveConfigValue(ctx *pulumi.Context) (value string, adopt bool, err error) {
	payload, err := os.ReadFile("data/config.json")
	if err == nil {
		return string(payload), false, nil
	}
	if !os.IsNotExist(err) {
		return "", false, err
	}

	existing, lookupErr := ssm.LookupParameter(ctx, &ssm.LookupParameterArgs{
		Name: configParameterName,
	})
	if lookupErr != nil {
		return "", false, fmt.Errorf(
			"config.json not found locally and SSM parameter %q does not exist in AWS; "+
				"either create data/config.json or run: "+
				"aws ssm put-parameter --name %q --value file://config.json --type SecureString: %w",
			configParameterName, configParameterName, lookupErr,
		)
	}

	value = existing.Value
	if value == "" {
		value = "{}"
	}
	return value, true, nil
}

func main() {
	pulumi.Run(func(ctx *pulumi.Context) error {
		_, err := newMailServer(ctx, "mail-server")
		return err
	})
}
