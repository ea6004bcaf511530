// Where: internal/mappers/container_test.go
// What: Tests for container argument helpers.
// Why: Ensure disk defaults and stable interface ordering.
package mappers

import (
	"errors"
	"reflect"
	"testing"

	"github.com/pacorain/mono/internal/service"
)

func TestRootfsSizeGB(t *testing.T) {
	props := service.ContainerProperties{
		Disks: map[string]service.DiskConfig{
			"rootfs": {Size: "8G"},
		},
	}
	got, err := rootfsSizeGB(props)
	if err != nil {
		t.Fatalf("rootfsSizeGB returned error: %v", err)
	}
	if got != 8 {
		t.Errorf("rootfsSizeGB = %d, want 8", got)
	}
}

func TestRootfsSizeGBDefault(t *testing.T) {
	got, err := rootfsSizeGB(service.ContainerProperties{})
	if err != nil {
		t.Fatalf("rootfsSizeGB returned error: %v", err)
	}
	if got != defaultRootfsSize {
		t.Errorf("rootfsSizeGB = %d, want %d", got, defaultRootfsSize)
	}
}

func TestRootfsSizeGBInvalid(t *testing.T) {
	props := service.ContainerProperties{
		Disks: map[string]service.DiskConfig{
			"rootfs": {Size: "huge"},
		},
	}
	if _, err := rootfsSizeGB(props); !errors.Is(err, service.ErrParse) {
		t.Errorf("rootfsSizeGB error = %v, want ErrParse", err)
	}
}

func TestInterfaceNamesSorted(t *testing.T) {
	props := service.ContainerProperties{
		NetworkInterfaces: map[string]service.NetworkInterface{
			"eth1": {Name: "eth1"},
			"eth0": {Name: "eth0"},
			"eth2": {Name: "eth2"},
		},
	}
	got := interfaceNames(props)
	want := []string{"eth0", "eth1", "eth2"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("interfaceNames = %v, want %v", got, want)
	}
}
