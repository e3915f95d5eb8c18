// Copyright (C) 2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package terraform

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/dcos/dcos-launch/pkg/models"
	"github.com/dcos/dcos-launch/pkg/utils"
)

// names of the terraform-dcos outputs
const (
	BootstrapHostOutput  = "Bootstrap Host Public IP"
	MasterIPsOutput      = "Master Public IPs"
	PrivateAgentsOutput  = "Private Agent Public IPs"
	PublicAgentsOutput   = "Public Agent Public IPs"
	GPUAgentsOutput      = "GPU Public IPs"
	MasterELBOutput      = "Master ELB Public IP"
	PublicAgentELBOutput = "Public Agent ELB Public IP"
	SSHUserOutput        = "ssh_user"
)

const (
	ipPattern     = `(?:\d{1,3}\.){3}\d{1,3}`
	ipListPattern = `\[[^\]]+\]`
)

var (
	ErrOutputFieldNotFound = errors.New("field not found in terraform output")

	sshUserRegex = regexp.MustCompile(regexp.QuoteMeta(SSHUserOutput) + ` = "?(\w+)`)
)

// GetIPs extracts the addresses printed after "prefix = ". A single dotted quad wins over
// a bracketed list. Absent fields yield an empty slice.
func GetIPs(prefix, text string) []string {
	quoted := regexp.QuoteMeta(prefix + " = ")
	single := regexp.MustCompile(quoted + `"?(` + ipPattern + `)`)
	if m := single.FindStringSubmatch(text); m != nil {
		return []string{m[1]}
	}
	list := regexp.MustCompile(quoted + `(` + ipListPattern + `)`)
	m := list.FindStringSubmatch(text)
	if m == nil {
		return []string{}
	}
	body := strings.Join(strings.Fields(m[1]), "")
	body = strings.TrimSuffix(strings.TrimPrefix(body, "["), "]")
	return utils.Filter(utils.Map(strings.Split(body, ","), utils.CleanupString), func(ip string) bool {
		return ip != ""
	})
}

// ToHostRecords converts public addresses into host records. terraform-dcos does not
// report private addresses, so PrivateIP stays nil.
func ToHostRecords(ips []string) []models.HostRecord {
	return utils.Map(ips, func(ip string) models.HostRecord {
		return models.HostRecord{PublicIP: ip}
	})
}

func ParseSSHUser(text string) (string, error) {
	m := sshUserRegex.FindStringSubmatch(text)
	if m == nil {
		return "", fmt.Errorf("%w: %s", ErrOutputFieldNotFound, SSHUserOutput)
	}
	return m[1], nil
}

// ParseTopology builds the cluster topology from the full "terraform output" text.
// GPU addresses are assigned to private agents by position.
func ParseTopology(text string) (*models.ClusterTopology, error) {
	sshUser, err := ParseSSHUser(text)
	if err != nil {
		return nil, err
	}
	privateAgents := ToHostRecords(GetIPs(PrivateAgentsOutput, text))
	for i, gpuIP := range GetIPs(GPUAgentsOutput, text) {
		if i >= len(privateAgents) {
			break
		}
		privateAgents[i].GPUPublicIP = gpuIP
	}
	topology := &models.ClusterTopology{
		BootstrapHost: ToHostRecords(GetIPs(BootstrapHostOutput, text)),
		Masters:       ToHostRecords(GetIPs(MasterIPsOutput, text)),
		PrivateAgents: privateAgents,
		PublicAgents:  ToHostRecords(GetIPs(PublicAgentsOutput, text)),
		SSHUser:       sshUser,
	}
	if elb := GetIPs(MasterELBOutput, text); len(elb) > 0 {
		topology.MasterELBPublicIP = elb[0]
	}
	if elb := GetIPs(PublicAgentELBOutput, text); len(elb) > 0 {
		topology.PublicAgentELBPublicIP = elb[0]
	}
	return topology, nil
}

// UnmatchedGPUIPs returns the GPU addresses that have no private agent to attach to.
func UnmatchedGPUIPs(text string, topology *models.ClusterTopology) []string {
	gpu := GetIPs(GPUAgentsOutput, text)
	if len(gpu) <= len(topology.PrivateAgents) {
		return nil
	}
	return gpu[len(topology.PrivateAgents):]
}
