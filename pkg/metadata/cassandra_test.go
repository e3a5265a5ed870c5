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
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestCassandraDB(t *testing.T) {
	Convey("While using metadata package", t, func() {
		cassandraDefConf := DefaultCassandraConfig()
		Convey("Cassandra default config shall have default settings", func() {
			So(cassandraDefConf.Address, ShouldEqual, cassandraAddress.Value())
			So(cassandraDefConf.Username, ShouldEqual, cassandraUsername.Value())
			So(cassandraDefConf.Password, ShouldEqual, cassandraPassword.Value())
			So(cassandraDefConf.Port, ShouldEqual, 9042)
			So(cassandraDefConf.KeyspaceName, ShouldEqual, "netmeter")
			So(cassandraDefConf.CreateKeyspace, ShouldBeTrue)
		})

		Convey("Cluster config carries the port and keeps gocql timeouts when none are set", func() {
			cluster := getClusterConfig(&Cassandra{config: cassandraDefConf})
			So(cluster.Port, ShouldEqual, 9042)
			So(cluster.Hosts, ShouldResemble, []string{"127.0.0.1"})
			So(cluster.Timeout > 0, ShouldBeTrue)
		})
	})
}
