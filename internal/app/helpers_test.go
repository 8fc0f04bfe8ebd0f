package app

import (
	"fmt"
	"net"
	"path/filepath"
	"testing"
)

// testConfig возвращает конфиг с журналом во временном каталоге и свободными портами.
func testConfig(t *testing.T) Config {
	t.Helper()
	cfg := DefaultConfig()
	cfg.DataFile = filepath.Join(t.TempDir(), "pedidos.json")
	cfg.HTTPAddr = fmt.Sprintf("127.0.0.1:%d", findFreePort(t))
	cfg.GRPCAddr = "127.0.0.1:0"
	cfg.MetricsAddr = "127.0.0.1:0"
	cfg.Kafka.Brokers = nil
	return cfg
}

// findFreePort находит свободный порт для тестов
func findFreePort(t *testing.T) int {
	t.Helper()

	listener, err := net.Listen("tcp", ":0")
	if err != nil {
		t.Fatalf("failed to find free port: %v", err)
	}
	defer listener.Close()

	return listener.Addr().(*net.TCPAddr).Port
}
