package cliconfig

// MergeConfig merges source config into target, updating sources tracking.
// Only non-zero values from source are applied.
func MergeConfig(target, source *CLIConfig, sourceType string) {
	if source == nil {
		return
	}
	if target.Sources == nil {
		target.Sources = make(map[string]string)
	}

	setString(&target.Host, source.Host, target.Sources, "host", sourceType)
	setString(&target.LogLevel, source.LogLevel, target.Sources, "logLevel", sourceType)
	setString(&target.LogFormat, source.LogFormat, target.Sources, "logFormat", sourceType)
	setString(&target.ServerURL, source.ServerURL, target.Sources, "serverUrl", sourceType)

	setInt(&target.Port, source.Port, target.Sources, "port", sourceType)
	setInt(&target.ReadTimeout, source.ReadTimeout, target.Sources, "readTimeout", sourceType)
	setInt(&target.WriteTimeout, source.WriteTimeout, target.Sources, "writeTimeout", sourceType)
	setInt(&target.MaxEntriesPerSpace, source.MaxEntriesPerSpace, target.Sources, "maxEntriesPerSpace", sourceType)
	setInt(&target.RateLimitPerMinute, source.RateLimitPerMinute, target.Sources, "rateLimitPerMinute", sourceType)
	setInt(&target.RateLimitBurst, source.RateLimitBurst, target.Sources, "rateLimitBurst", sourceType)
	setInt(&target.HeartbeatInterval, source.HeartbeatInterval, target.Sources, "heartbeatInterval", sourceType)
	setInt(&target.SubscriberBuffer, source.SubscriberBuffer, target.Sources, "subscriberBuffer", sourceType)
	setInt(&target.MaxBodyBytes, source.MaxBodyBytes, target.Sources, "maxBodyBytes", sourceType)

	if len(source.CORSOrigins) > 0 {
		target.CORSOrigins = append([]string(nil), source.CORSOrigins...)
		target.Sources["corsOrigins"] = sourceType
	}

	// A boolean can only be told apart from "unset" when the source records
	// which keys it set; otherwise only true is merged.
	if (source.SetFields != nil && source.SetFields["json"]) || (source.SetFields == nil && source.JSON) {
		target.JSON = source.JSON
		target.Sources["json"] = sourceType
	}
}

func setString(dst *string, v string, sources map[string]string, key, sourceType string) {
	if v != "" {
		*dst = v
		sources[key] = sourceType
	}
}

func setInt[T int | int64](dst *T, v T, sources map[string]string, key, sourceType string) {
	if v != 0 {
		*dst = v
		sources[key] = sourceType
	}
}
