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

// Package conf defines the command line flags of NetMeter on top of kingpin.
//
// Every flag can also be given as an environment variable named after the flag with
// the NETMETER_ prefix, e.g. --cl1_test_ip and NETMETER_CL1_TEST_IP. Flags are typed
// (string, int, bool, duration, IP, string list) and can be declared one by one or as
// tagged fields of a struct with Process. DumpConfig prints the current values as an
// environment file.
package conf
