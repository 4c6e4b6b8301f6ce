// Package tensor implements a small float32 n-dimensional tensor.
//
// Tensors are row-major and contiguous. The package provides the
// building blocks the rest of the repository computes with:
//
//   - elementwise Add/Sub/Mul/Div with broadcasting
//   - MatMul for 2-D matrices and matrix-vector products
//   - Reshape (with one inferred -1 dimension) and Transpose
//   - Sum/Mean/Max reductions over all elements or a single axis
//
// Exported operations return errors for shape mismatches instead of
// panicking. Tensors are not safe for concurrent mutation.
package tensor
