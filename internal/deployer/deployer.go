// Where: internal/deployer/deployer.go
// What: Pulumi Automation API orchestration for services.
// Why: Drive preview/deploy/destroy of one stack per service without a checked-in program.
package deployer

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/pulumi/pulumi/sdk/v3/go/auto"
	"github.com/pulumi/pulumi/sdk/v3/go/auto/optdestroy"
	"github.com/pulumi/pulumi/sdk/v3/go/auto/optpreview"
	"github.com/pulumi/pulumi/sdk/v3/go/auto/optup"
	"github.com/pulumi/pulumi/sdk/v3/go/common/tokens"
	"github.com/pulumi/pulumi/sdk/v3/go/common/workspace"

	"github.com/pacorain/mono/internal/config"
	"github.com/pacorain/mono/internal/proxmox"
	"github.com/pacorain/mono/internal/service"
)

// ProjectName is the Pulumi project all service stacks belong to.
// Each service gets its own stack for isolation.
const ProjectName = "lab-homelab"

// Deployer runs Pulumi stack operations for services under one lab home.
// Credentials resolve once at construction and live only in memory.
type Deployer struct {
	home     string
	out      io.Writer
	creds    proxmox.Credentials
	backend  config.Backend
	resolver *proxmox.Resolver
	node     string
	storage  string
}

// New loads config.yaml under home and resolves all credentials.
func New(home string, out io.Writer) (*Deployer, error) {
	cfg, err := config.Load(config.ConfigPath(home))
	if err != nil {
		return nil, err
	}

	creds, err := cfg.ProxmoxCredentials()
	if err != nil {
		return nil, err
	}
	backend, err := cfg.PulumiBackend()
	if err != nil {
		return nil, err
	}

	if out == nil {
		out = os.Stdout
	}

	return &Deployer{
		home:     home,
		out:      out,
		creds:    creds,
		backend:  backend,
		resolver: proxmox.NewResolver(proxmox.NewClient(creds)),
		node:     cfg.Node(),
		storage:  cfg.Storage(),
	}, nil
}

// Preview shows the changes a deployment would make.
func (d *Deployer) Preview(ctx context.Context, name string) (auto.PreviewResult, error) {
	stack, err := d.stack(ctx, name)
	if err != nil {
		return auto.PreviewResult{}, err
	}
	return stack.Preview(ctx, optpreview.ProgressStreams(d.out))
}

// Deploy applies a service's resources to Proxmox.
func (d *Deployer) Deploy(ctx context.Context, name string) (auto.UpResult, error) {
	stack, err := d.stack(ctx, name)
	if err != nil {
		return auto.UpResult{}, err
	}
	return stack.Up(ctx, optup.ProgressStreams(d.out))
}

// Destroy removes a service's deployed resources.
func (d *Deployer) Destroy(ctx context.Context, name string) (auto.DestroyResult, error) {
	stack, err := d.stack(ctx, name)
	if err != nil {
		return auto.DestroyResult{}, err
	}
	return stack.Destroy(ctx, optdestroy.ProgressStreams(d.out))
}

// stack loads the service definition and upserts its inline-program
// stack against the configured backend.
func (d *Deployer) stack(ctx context.Context, name string) (auto.Stack, error) {
	svc, err := service.Load(config.ServiceDir(d.home), name)
	if err != nil {
		return auto.Stack{}, err
	}

	if err := d.preflightBackend(ctx); err != nil {
		return auto.Stack{}, err
	}

	workDir := config.WorkDir(d.home)
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return auto.Stack{}, fmt.Errorf("create pulumi work dir: %w", err)
	}

	project := workspace.Project{
		Name:    tokens.PackageName(ProjectName),
		Runtime: workspace.NewProjectRuntimeInfo("go", nil),
		Backend: &workspace.ProjectBackend{URL: d.backend.URL},
	}

	return auto.UpsertStackInlineSource(
		ctx,
		svc.ID,
		ProjectName,
		d.program(svc),
		auto.WorkDir(workDir),
		auto.Project(project),
		auto.EnvVars(d.envVars()),
	)
}

// envVars builds the workspace environment: state passphrase and the
// AWS credentials the S3 backend needs.
func (d *Deployer) envVars() map[string]string {
	region := os.Getenv("AWS_REGION")
	if region == "" {
		region = "us-east-1"
	}
	return map[string]string{
		// May be empty when state secrets are unused.
		"PULUMI_CONFIG_PASSPHRASE": os.Getenv("PULUMI_CONFIG_PASSPHRASE"),
		"AWS_ACCESS_KEY_ID":        d.backend.AWS.AccessKeyID,
		"AWS_SECRET_ACCESS_KEY":    d.backend.AWS.SecretAccessKey,
		"AWS_REGION":               region,
	}
}
