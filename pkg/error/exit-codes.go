/*
Copyright © 2022 - 2025 SUSE LLC

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// provides a custom error interface and exit codes to use on the elemental-flash cli
package error

//
// Provided exit codes for elemental-flash

// To make it easy to generate them you have to respect the structure:
//
// comment that explains the error
// const NamedConstant = ERRORCODE
//
// This way the exit codes can be rendered into a Markdown list of EXITCODE -> COMMENT

// Error reading the flash config
const ReadingFlashConfig = 12

// Error reading the expand config
const ReadingExpandConfig = 13

// Command requires root privileges
const RequiresRoot = 14

// Image file not found or not readable
const ImageNotFound = 15

// Target device not found
const DeviceNotFound = 16

// Image does not fit in the target device
const ImageTooLarge = 17

// Error wiping the target device
const WipeDevice = 18

// Error writing the image to the target device
const WriteImage = 19

// Error flushing writes to the target device
const SyncDevice = 20

// Error inspecting the partition table of the target device
const InspectDevice = 21

// Error resizing the data partition
const ResizePartition = 22

// Error finding the data partition device
const FindPartition = 23

// Filesystem check reported unrecoverable errors
const CheckFilesystem = 24

// Error resizing the filesystem
const ResizeFilesystem = 25

// Invalid flags or options
const InvalidOptions = 26

// Interrupted by the user
const Interrupted = 130

// Unknown error
const Unknown int = 255
