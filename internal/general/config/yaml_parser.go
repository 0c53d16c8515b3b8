package config

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// parseYAML parses the specific two-level mapping used by config.yaml
func parseYAML(r io.Reader, cfg *Config) error {
	type section int
	const (
		none section = iota
		db
		rm
		ws
		sv
		jw
		fe
		dh
		zn
	)

	scanner := bufio.NewScanner(r)
	var cur section

	lineNo := 0
	seenTop := map[section]bool{}

	for scanner.Scan() {
		lineNo++
		raw := scanner.Text()

		// strip comments
		if i := strings.IndexByte(raw, '#'); i >= 0 {
			raw = raw[:i]
		}

		line := strings.TrimRight(raw, " \t\r\n")
		if strings.TrimSpace(line) == "" {
			continue
		}

		// top-level section? (no leading spaces)
		if len(line) > 0 && (line[0] != ' ' && line[0] != '\t') {
			switch strings.TrimSpace(line) {
			case "database:":
				cur = db
				if seenTop[db] {
					return fmt.Errorf("line %d: duplicate 'database' section", lineNo)
				}
				seenTop[db] = true
			case "rabbitmq:":
				cur = rm
				if seenTop[rm] {
					return fmt.Errorf("line %d: duplicate 'rabbitmq' section", lineNo)
				}
				seenTop[rm] = true
			case "websocket:":
				cur = ws
				if seenTop[ws] {
					return fmt.Errorf("line %d: duplicate 'websocket' section", lineNo)
				}
				seenTop[ws] = true
			case "services:":
				cur = sv
				if seenTop[sv] {
					return fmt.Errorf("line %d: duplicate 'services' section", lineNo)
				}
				seenTop[sv] = true
			case "jwt:":
				cur = jw
				if seenTop[jw] {
					return fmt.Errorf("line %d: duplicate 'jwt' section", lineNo)
				}
				seenTop[jw] = true
			case "fees:":
				cur = fe
				if seenTop[fe] {
					return fmt.Errorf("line %d: duplicate 'fees' section", lineNo)
				}
				seenTop[fe] = true
			case "deadhead:":
				cur = dh
				if seenTop[dh] {
					return fmt.Errorf("line %d: duplicate 'deadhead' section", lineNo)
				}
				seenTop[dh] = true
			case "zones:":
				cur = zn
				if seenTop[zn] {
					return fmt.Errorf("line %d: duplicate 'zones' section", lineNo)
				}
				seenTop[zn] = true
			default:
				return fmt.Errorf("line %d: unknown top-level key %q", lineNo, strings.TrimSuffix(strings.TrimSpace(line), ":"))
			}
			continue
		}

		// expect indented "key: value"
		if cur == none {
			return fmt.Errorf("line %d: key without a section", lineNo)
		}
		trim := strings.TrimSpace(line)
		colon := strings.IndexByte(trim, ':')
		if colon <= 0 {
			return fmt.Errorf("line %d: expected 'key: value'", lineNo)
		}
		key := strings.TrimSpace(trim[:colon])
		val := strings.TrimLeft(strings.TrimSpace(trim[colon+1:]), " \t")

		switch cur {
		case db:
			switch key {
			case "host":
				cfg.Database.Host = resolveScalar(val)
			case "port":
				p, err := strconv.Atoi(resolveScalar(val))
				if err != nil {
					return fmt.Errorf("line %d: database.port must be int: %v", lineNo, err)
				}
				cfg.Database.Port = p
			case "user":
				cfg.Database.User = resolveScalar(val)
			case "password":
				cfg.Database.Password = resolveScalar(val)
			case "database":
				cfg.Database.Name = resolveScalar(val)
			default:
				return fmt.Errorf("line %d: unknown key in database: %q", lineNo, key)
			}
		case rm:
			switch key {
			case "host":
				cfg.RabbitMQ.Host = resolveScalar(val)
			case "port":
				p, err := strconv.Atoi(resolveScalar(val))
				if err != nil {
					return fmt.Errorf("line %d: rabbitmq.port must be int: %v", lineNo, err)
				}
				cfg.RabbitMQ.Port = p
			case "user":
				cfg.RabbitMQ.User = resolveScalar(val)
			case "password":
				cfg.RabbitMQ.Password = resolveScalar(val)
			default:
				return fmt.Errorf("line %d: unknown key in rabbitmq: %q", lineNo, key)
			}
		case ws:
			switch key {
			case "port":
				p, err := strconv.Atoi(resolveScalar(val))
				if err != nil {
					return fmt.Errorf("line %d: websocket.port must be int: %v", lineNo, err)
				}
				cfg.WebSocket.Port = p
			default:
				return fmt.Errorf("line %d: unknown key in websocket: %q", lineNo, key)
			}
		case sv:
			switch key {
			case "fare_service":
				p, err := strconv.Atoi(resolveScalar(val))
				if err != nil {
					return fmt.Errorf("line %d: services.fare_service must be int: %v", lineNo, err)
				}
				cfg.Services.FareServicePort = p
			default:
				return fmt.Errorf("line %d: unknown key in services: %q", lineNo, key)
			}
		case jw:
			switch key {
			case "secret_key":
				cfg.JWT.SecretKey = resolveScalar(val)
			default:
				return fmt.Errorf("line %d: unknown key in jwt: %q", lineNo, key)
			}
		case fe:
			switch key {
			case "platform_fee":
				f, err := parseFloat(val)
				if err != nil {
					return fmt.Errorf("line %d: fees.platform_fee must be number: %v", lineNo, err)
				}
				cfg.Fees.PlatformFee = f
			case "gst_charges_rate":
				f, err := parseFloat(val)
				if err != nil {
					return fmt.Errorf("line %d: fees.gst_charges_rate must be number: %v", lineNo, err)
				}
				cfg.Fees.GSTChargesRate = f
			case "gst_platform_fee_rate":
				f, err := parseFloat(val)
				if err != nil {
					return fmt.Errorf("line %d: fees.gst_platform_fee_rate must be number: %v", lineNo, err)
				}
				cfg.Fees.GSTPlatformRate = f
			default:
				return fmt.Errorf("line %d: unknown key in fees: %q", lineNo, key)
			}
		case dh:
			switch key {
			case "policy":
				cfg.Deadhead.Policy = resolveScalar(val)
			case "charge":
				f, err := parseFloat(val)
				if err != nil {
					return fmt.Errorf("line %d: deadhead.charge must be number: %v", lineNo, err)
				}
				cfg.Deadhead.Charge = f
			default:
				return fmt.Errorf("line %d: unknown key in deadhead: %q", lineNo, key)
			}
		case zn:
			f, err := parseFloat(val)
			if err != nil {
				return fmt.Errorf("line %d: zones.%s must be number: %v", lineNo, key, err)
			}
			switch key {
			case "inner_lat":
				cfg.Zones.InnerLat = f
			case "inner_lon":
				cfg.Zones.InnerLon = f
			case "inner_radius_km":
				cfg.Zones.InnerRadiusKM = f
			case "outer_lat":
				cfg.Zones.OuterLat = f
			case "outer_lon":
				cfg.Zones.OuterLon = f
			case "outer_radius_km":
				cfg.Zones.OuterRadiusKM = f
			default:
				return fmt.Errorf("line %d: unknown key in zones: %q", lineNo, key)
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return err
	}

	return nil
}

func parseFloat(s string) (float64, error) {
	return strconv.ParseFloat(resolveScalar(s), 64)
}

// resolveScalar trims whitespace and removes surrounding quotes from YAML-like scalars.
// For example:
//
//	"localhost"  -> localhost
//	'password123' -> password123
//	localhost     -> localhost
//
// This ensures values like jwt.secret_key are not stored with extra quotes.
func resolveScalar(s string) string {
	s = strings.TrimSpace(s)

	// if value is quoted with "..." or '...', remove quotes safely
	n := len(s)
	if n >= 2 {
		if (s[0] == '"' && s[n-1] == '"') || (s[0] == '\'' && s[n-1] == '\'') {
			if unq, err := strconv.Unquote(s); err == nil {
				return unq
			}
			// fallback if strconv.Unquote fails (e.g., mismatched quotes)
			return s[1 : n-1]
		}
	}

	return s
}
