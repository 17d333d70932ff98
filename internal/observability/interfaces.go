// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package observability

// Observable is implemented by components that report timings under a
// stable component name.
type Observable interface {
	GetComponentName() string
	SetObserver(observer *StandardObserver)
}
