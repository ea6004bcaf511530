// Where: infra/main.go
// What: Pulumi program for shared account infrastructure.
// Why: Keep the SSH key pair for EC2 Instance Connect under stack management.
package main

import (
	"github.com/pulumi/pulumi-aws/sdk/v6/go/aws/ec2"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi/config"
)

func main() {
	pulumi.Run(func(ctx *pulumi.Context) error {
		cfg := config.New(ctx, "")
		sshKey := cfg.RequireSecret("austin_ssh_key")

		keyPair, err := ec2.NewKeyPair(ctx, "austin-ssh-key", &ec2.KeyPairArgs{
			KeyName:   pulumi.String("austin-key"),
			PublicKey: sshKey,
			Tags: pulumi.StringMap{
				"Project": pulumi.String("infra"),
				"Name":    pulumi.String("austin-key"),
			},
		})
		if err != nil {
			return err
		}

		ctx.Export("austin_key_pair_name", keyPair.KeyName)
		return nil
	})
}
