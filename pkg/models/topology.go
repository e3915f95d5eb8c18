// Copyright (C) 2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package models

// HostRecord is one cluster host as reported by terraform.
// PrivateIP stays nil because terraform-dcos only outputs public addresses.
type HostRecord struct {
	PrivateIP   *string `json:"private_ip" yaml:"private_ip"`
	PublicIP    string  `json:"public_ip" yaml:"public_ip"`
	GPUPublicIP string  `json:"gpu_public_ip,omitempty" yaml:"gpu_public_ip,omitempty"`
}

type ClusterTopology struct {
	BootstrapHost          []HostRecord `json:"bootstrap_host" yaml:"bootstrap_host"`
	Masters                []HostRecord `json:"masters" yaml:"masters"`
	PrivateAgents          []HostRecord `json:"private_agents" yaml:"private_agents"`
	PublicAgents           []HostRecord `json:"public_agents" yaml:"public_agents"`
	MasterELBPublicIP      string       `json:"master_elb_public_ip,omitempty" yaml:"master_elb_public_ip,omitempty"`
	PublicAgentELBPublicIP string       `json:"public_agent_elb_public_ip,omitempty" yaml:"public_agent_elb_public_ip,omitempty"`
	SSHUser                string       `json:"ssh_user" yaml:"ssh_user"`
}

// Roles returns the host groups keyed by role name, in display order.
func (t *ClusterTopology) Roles() []RoleHosts {
	return []RoleHosts{
		{Role: "bootstrap_host", Hosts: t.BootstrapHost},
		{Role: "masters", Hosts: t.Masters},
		{Role: "private_agents", Hosts: t.PrivateAgents},
		{Role: "public_agents", Hosts: t.PublicAgents},
	}
}

type RoleHosts struct {
	Role  string
	Hosts []HostRecord
}
