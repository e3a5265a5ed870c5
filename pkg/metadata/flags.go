// Copyright (c) 2017 Intel Corporation
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package metadata

import (
	"github.com/daynix/NetMeter/pkg/conf"
)

// Disabled is the DatabaseFlag value that turns metadata recording off.
const Disabled = "none"

var (
	// DatabaseFlag selects where run metadata and sweep summaries are recorded.
	DatabaseFlag = conf.NewStringFlag("metadata_db", "Database for run metadata: none, cassandra or influxdb", Disabled)

	cassandraAddress           = conf.NewStringFlag("cassandra_addr", "Address of Cassandra DB endpoint", "127.0.0.1")
	cassandraPort              = conf.NewIntFlag("cassandra_port", "Port of Cassandra DB endpoint", 9042)
	cassandraUsername          = conf.NewStringFlag("cassandra_username", "The user name which will be presented when connecting to the cluster", "")
	cassandraPassword          = conf.NewStringFlag("cassandra_password", "The password which will be presented when connecting to the cluster", "")
	cassandraKeyspaceName      = conf.NewStringFlag("cassandra_keyspace_name", "Keyspace NetMeter metadata is stored in", "netmeter")
	cassandraCreateKeyspace    = conf.NewBoolFlag("cassandra_create_keyspace", "Create the keyspace if it does not exist", true)
	cassandraConnectionTimeout = conf.NewDurationFlag("cassandra_connection_timeout", "Initial connection timeout", 0)
	cassandraTimeout           = conf.NewDurationFlag("cassandra_timeout", "Query timeout", 0)
	cassandraInitialHostLookup = conf.NewBoolFlag("cassandra_initial_host_lookup", "Look up peers of the given address on connect", false)
	cassandraIgnorePeerAddr    = conf.NewBoolFlag("cassandra_ignore_peer_addr", "Use the given address instead of the addresses peers announce", false)
	cassandraSslEnabled        = conf.NewBoolFlag("cassandra_ssl", "Connect with SSL", false)
	cassandraSslHostValidation = conf.NewBoolFlag("cassandra_ssl_host_validation", "Validate the host certificate", false)
	cassandraSslCAPath         = conf.NewStringFlag("cassandra_ssl_ca_path", "Path to the CA certificate", "")
	cassandraSslCertPath       = conf.NewStringFlag("cassandra_ssl_cert_path", "Path to the client certificate", "")
	cassandraSslKeyPath        = conf.NewStringFlag("cassandra_ssl_key_path", "Path to the client key", "")

	influxDBAddress            = conf.NewStringFlag("influxdb_addr", "Address of InfluxDB endpoint", "127.0.0.1")
	influxDBPort               = conf.NewIntFlag("influxdb_port", "Port of InfluxDB endpoint", 8086)
	influxDBUsername           = conf.NewStringFlag("influxdb_username", "InfluxDB user name", "")
	influxDBPassword           = conf.NewStringFlag("influxdb_password", "InfluxDB password", "")
	influxDBName               = conf.NewStringFlag("influxdb_name", "InfluxDB database NetMeter metadata is stored in", "netmeter")
	influxDBCreateDatabase     = conf.NewBoolFlag("influxdb_create_database", "Create the database if it does not exist", true)
	influxDBInsecureSkipVerify = conf.NewBoolFlag("influxdb_insecure_skip_verify", "Skip TLS certificate verification", false)
)
