package config

// configSchema constrains the YAML config file. additionalProperties is
// false so misspelled keys are caught at load time.
const configSchema = `{
  "type": "object",
  "additionalProperties": false,
  "properties": {
    "listen_addr": {"type": "string", "minLength": 1},
    "database_path": {"type": "string", "minLength": 1},
    "log_level": {"type": "string", "enum": ["debug", "info", "warn", "error"]},
    "gin_mode": {"type": "string", "enum": ["debug", "release", "test"]}
  }
}`
