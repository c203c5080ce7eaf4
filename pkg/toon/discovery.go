package toon

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"sync"
	"time"
)

// DiscoveryResult represents a discovered Toon device
type DiscoveryResult struct {
	IP string
}

// Discover searches for rooted Toon devices on the network.
// It scans the local subnet and probes port 80 with a thermostat info
// request; hosts that answer with decodable thermostat JSON are reported.
// The context controls the overall discovery timeout.
// If the context has no deadline, a 5-second timeout is applied.
func Discover(ctx context.Context) ([]DiscoveryResult, error) {
	var results []DiscoveryResult

	// Apply default timeout if context has no deadline
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
	}

	ips, err := getLocalIPs()
	if err != nil {
		return nil, fmt.Errorf("get local IPs: %w", err)
	}

	type scanResult struct {
		ip string
		ok bool
	}

	count := 0
	for range ips {
		count += 254 // 1-254 for each /24 subnet
	}

	// Use buffered channel to prevent goroutine leaks
	resultsCh := make(chan scanResult, count)
	var wg sync.WaitGroup

	probe := &http.Client{Timeout: 500 * time.Millisecond}

	for _, ip := range ips {
		// Assume /24 subnet
		baseIP := ip.Mask(net.CIDRMask(24, 32))
		baseIP[3] = 0

		for i := 1; i < 255; i++ {
			targetIP := net.IP{baseIP[0], baseIP[1], baseIP[2], byte(i)}
			wg.Add(1)
			go func(ip string) {
				defer wg.Done()
				resultsCh <- scanResult{ip: ip, ok: probeToon(ctx, probe, ip)}
			}(targetIP.String())
		}
	}

	// Close channel when all goroutines complete
	go func() {
		wg.Wait()
		close(resultsCh)
	}()

	for res := range resultsCh {
		if res.ok {
			results = append(results, DiscoveryResult{IP: res.ip})
		}
		select {
		case <-ctx.Done():
			return results, nil
		default:
		}
	}

	return results, nil
}

func probeToon(ctx context.Context, probe *http.Client, ip string) bool {
	url := fmt.Sprintf("http://%s/%s?action=%s", ip, ServiceThermostat, ActionThermostatInfo)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false
	}

	resp, err := probe.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil {
		return false
	}

	var payload map[string]json.RawMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		return false
	}
	_, ok := payload["currentSetpoint"]
	return ok
}

func getLocalIPs() ([]net.IP, error) {
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return nil, err
	}

	var ips []net.IP
	for _, addr := range addrs {
		if ipnet, ok := addr.(*net.IPNet); ok && !ipnet.IP.IsLoopback() {
			if ipnet.IP.To4() != nil {
				ips = append(ips, ipnet.IP)
			}
		}
	}
	return ips, nil
}
