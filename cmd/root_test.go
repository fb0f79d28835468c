package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testManifest = `
name = "webapp"

vpc "main" {
  cidr_block = "10.0.0.0/16"
}

internet_gateway "main" {
  vpc = "main"
}

subnet "public_a" {
  vpc               = "main"
  cidr_block        = "10.0.1.0/24"
  availability_zone = "us-east-1a"
}
`

func TestRootCmd_HasSubcommands(t *testing.T) {
	root := NewRootCmd()

	names := make(map[string]bool)
	for _, sub := range root.Commands() {
		names[sub.Name()] = true
	}

	for _, expected := range []string{"plan", "apply", "destroy", "status"} {
		assert.True(t, names[expected], "missing subcommand %s", expected)
	}
}

func TestPlanCmd_PrintsCreationOrder(t *testing.T) {
	viper.Reset()

	path := filepath.Join(t.TempDir(), "stack.hcl")
	require.NoError(t, os.WriteFile(path, []byte(testManifest), 0o644))

	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs([]string{"plan", "-f", path})

	require.NoError(t, root.Execute())

	output := out.String()
	assert.Contains(t, output, `Plan for stack "webapp" (3 resources)`)

	vpcIdx := bytes.Index(out.Bytes(), []byte("aws_vpc.main"))
	igwIdx := bytes.Index(out.Bytes(), []byte("aws_internet_gateway.main"))
	subnetIdx := bytes.Index(out.Bytes(), []byte("aws_subnet.public_a"))
	require.NotEqual(t, -1, vpcIdx)
	assert.Less(t, vpcIdx, igwIdx)
	assert.Less(t, vpcIdx, subnetIdx)
}

func TestPlanCmd_RejectsInvalidManifest(t *testing.T) {
	viper.Reset()

	path := filepath.Join(t.TempDir(), "stack.hcl")
	require.NoError(t, os.WriteFile(path, []byte(`name = "webapp"

subnet "orphan" {
  vpc               = "ghost"
  cidr_block        = "10.0.1.0/24"
  availability_zone = "us-east-1a"
}
`), 0o644))

	root := NewRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"plan", "-f", path})

	assert.Error(t, root.Execute())
}
